package domain

type ctxKey string

// ActorCtxKey carries the authenticated actor through request contexts.
const ActorCtxKey ctxKey = "av-actor"

// Mime types accepted for document upload. "image/" is a prefix match.
var AcceptedMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AcceptedMime reports whether a declared mime type is uploadable.
func AcceptedMime(mime string) bool {
	if len(mime) >= 6 && mime[:6] == "image/" {
		return true
	}
	for _, m := range AcceptedMimeTypes {
		if mime == m {
			return true
		}
	}
	return false
}
