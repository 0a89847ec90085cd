// Copyright 2025 Divine Vision Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the persistence abstraction for precomputed
// verse embeddings.
//
// The verse corpus itself stays in memory (see the corpus package); only
// embedding vectors are persisted, because they are expensive to compute
// and survive process restarts. Repository interfaces decouple the search
// engine from the backend so BadgerDB and in-memory implementations are
// interchangeable.
//
// All repository implementations must be thread-safe and accept
// context.Context for cancellation.
package storage
