package export

import (
	"encoding/json"
	"io"

	"github.com/tonhe/shadow/internal/metrics"
)

// WriteUsersJSON writes users as an indented JSON array.
func WriteUsersJSON(w io.Writer, users []metrics.User) error {
	if users == nil {
		users = []metrics.User{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(users)
}
