package badger

import (
	"fmt"

	"github.com/sushilduseja/divine-vision/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embrec"
)

// makeEmbeddingKey generates a key for an embedding record by verse ID.
func makeEmbeddingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}
