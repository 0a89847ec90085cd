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


// Package corpus loads and serves the in-memory verse collection.
//
// The corpus is small enough to stay fully memory-resident. Verses are
// loaded once, validated, and then treated as read-only; a reload swaps
// the whole set atomically so concurrent searches never observe a
// partially updated collection.
package corpus
