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


package search

import "errors"

var (
	// ErrVerseSourceRequired is returned when a verse source is not provided.
	ErrVerseSourceRequired = errors.New("verse source required")

	// ErrEmptyQuery is returned when a search is attempted with an empty query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidLimit is returned when a search is attempted with a negative limit.
	ErrInvalidLimit = errors.New("limit must not be negative")

	// ErrGeneratorRequired is returned when a re-ranker is constructed
	// without a text generation backend.
	ErrGeneratorRequired = errors.New("generator required")
)
