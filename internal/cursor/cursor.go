// Package cursor implements the opaque pagination cursor used by the
// connection read path: a base64url-no-pad encoding of
// "<rfc3339-nano-utc>:<id>".
package cursor

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/sellershut/categories/internal/errs"
)

// Cursor is the decoded form of an opaque pagination token: the sort key
// (created_at, id) a listing query resumes from.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode renders (createdAt, id) as an opaque, base64url-no-pad string. createdAt is
// always normalized to UTC before rendering so the result is independent of
// the process timezone.
func Encode(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode reverses Encode. It fails with an errs.Invalid error when s is not
// valid base64url, lacks the ":" separator, or carries an unparseable
// timestamp.
func Decode(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, errs.Wrap(errs.Invalid, err, "decode cursor")
	}

	idx := strings.LastIndexByte(string(raw), ':')
	if idx < 0 {
		return Cursor{}, errs.New(errs.Invalid, "cursor missing separator")
	}

	tsPart, idPart := string(raw[:idx]), string(raw[idx+1:])
	if idPart == "" {
		return Cursor{}, errs.New(errs.Invalid, "cursor missing id")
	}

	t, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return Cursor{}, errs.Wrap(errs.Invalid, err, "decode cursor timestamp")
	}

	return Cursor{CreatedAt: t.UTC(), ID: idPart}, nil
}
