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


// Package ai defines the interfaces between the retrieval engine and its
// AI collaborators: text embedding and text generation.
//
// Both services are optional from the engine's point of view. A missing
// embedder disables the semantic scorer; a missing generator disables
// re-ranking and answer generation. Neither absence is an error.
//
// The package also provides explicitly constructed, injectable response
// cache and rate limiter objects so callers and tests control their
// lifetime instead of relying on process-global state.
package ai
