package permissions

import "github.com/hyeonlab/unihub/models"

// Kind is the operation being authorized.
type Kind string

const (
	View   Kind = "view"
	Add    Kind = "add"
	Change Kind = "change"
	Delete Kind = "delete"
)

// Engine decides object-level access from (user identity, object snapshot)
// alone. No permission-grant rows exist and no queries are issued beyond
// loading the object itself. An Engine value is injected into each controller
// rather than registered globally.
//
// Rules: the owner of an object holds every permission; non-owners get view
// only, and nothing at all when the object is private. User objects are
// viewable by anyone but mutable only by themselves. Objects with no owner
// mapping fall back to the privacy flag.
type Engine struct{}

// NewEngine returns a stateless permission engine.
func NewEngine() *Engine { return &Engine{} }

// privater is implemented by models carrying an is_private flag.
type privater interface {
	Private() bool
}

// Allows reports whether the user (0 = anonymous) may perform kind on obj.
// Add carries no target object and is always granted here; the
// authentication-required check lives in middleware.
func (e *Engine) Allows(userID uint, kind Kind, obj interface{}) bool {
	if kind == Add || obj == nil {
		return true
	}

	if target, ok := asUser(obj); ok {
		if kind == View {
			return true
		}
		return userID != 0 && userID == target.ID
	}

	owner, mapped := ownerOf(obj)
	private := false
	if p, ok := obj.(privater); ok {
		private = p.Private()
	}

	if !mapped {
		return !private
	}
	if owner != nil && userID != 0 && *owner == userID {
		return true
	}
	if private {
		return false
	}
	return kind == View
}

// ownerOf is the static entity-type -> owner-field mapping. The second return
// is false for types that have no owner at all.
func ownerOf(obj interface{}) (*uint, bool) {
	switch o := obj.(type) {
	case *models.Post:
		return o.WriterID, true
	case models.Post:
		return o.WriterID, true
	case *models.Answer:
		return o.WriterID, true
	case models.Answer:
		return o.WriterID, true
	case *models.Comment:
		return o.WriterID, true
	case models.Comment:
		return o.WriterID, true
	case *models.Story:
		id := o.WriterID
		return &id, true
	case models.Story:
		id := o.WriterID
		return &id, true
	case *models.Directory:
		id := o.UploaderID
		return &id, true
	case models.Directory:
		id := o.UploaderID
		return &id, true
	}
	return nil, false
}

func asUser(obj interface{}) (*models.User, bool) {
	switch o := obj.(type) {
	case *models.User:
		return o, true
	case models.User:
		return &o, true
	}
	return nil, false
}
