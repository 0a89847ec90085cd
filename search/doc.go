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


// Package search provides the hybrid retrieval and ranking engine.
//
// The Searcher type runs up to three independent scorers over the
// in-memory verse corpus:
//   - a BM25 lexical scorer over transliteration, translation and tags
//   - a fuzzy concept/keyword tag scorer
//   - a cosine-similarity vector scorer, when an embedder is configured
//
// Each scorer produces a ranked list; the lists are merged with weighted
// Reciprocal Rank Fusion, which consumes rank positions rather than raw
// scores so signals with incompatible score scales combine safely. An
// optional LLM re-ranker reorders the fused head, falling back to the
// fused order on any failure.
//
// With re-ranking disabled the pipeline is fully deterministic: a fixed
// corpus and a fixed config always yield the same ordering.
package search
