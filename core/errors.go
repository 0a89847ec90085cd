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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidVerse indicates a Verse failed validation.
	ErrInvalidVerse = errors.New("invalid verse")

	// ErrEmptyTextID indicates the TextID field is empty.
	ErrEmptyTextID = errors.New("verse text_id cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("verse source cannot be empty")

	// ErrEmptyTranslation indicates the english translation is empty.
	ErrEmptyTranslation = errors.New("verse english translation cannot be empty")

	// ErrInvalidWeights indicates a negative fusion weight.
	ErrInvalidWeights = errors.New("weights cannot be negative")
)
