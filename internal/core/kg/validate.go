package kg

import (
	"errors"
	"strings"

	"github.com/agenthands/biokag/internal/core/identity"
	"github.com/agenthands/biokag/internal/core/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEntity checks an entity record without touching any graph.
func ValidateEntity(rec model.EntityRecord) error {
	if err := structErr("entity", validate.Struct(rec)); err != nil {
		return err
	}
	if rec.StartPos != nil && rec.EndPos != nil && *rec.EndPos < *rec.StartPos {
		return &InvalidRecordError{Record: "entity", Field: "end_pos", Reason: "is before start_pos"}
	}
	return nil
}

// ValidateRelation checks a relation record without touching any graph.
func ValidateRelation(rec model.RelationRecord) error {
	if err := structErr("relation", validate.Struct(rec)); err != nil {
		return err
	}
	for _, ep := range []struct {
		field string
		ep    model.Endpoint
	}{{"subject", rec.Subject}, {"object", rec.Object}} {
		if ep.ep.ID == "" && identity.Normalize(ep.ep.Text) == "" {
			return &InvalidRecordError{Record: "relation", Field: ep.field + ".text", Reason: "normalizes to empty"}
		}
	}
	return nil
}

// ValidateSource checks a provenance record.
func ValidateSource(ref model.SourceRef) error {
	if strings.TrimSpace(ref.DocumentID) == "" {
		return &InvalidRecordError{Record: "source", Field: "document_id", Reason: "is required"}
	}
	if ref.StartPos != nil && ref.EndPos != nil && *ref.EndPos < *ref.StartPos {
		return &InvalidRecordError{Record: "source", Field: "end_pos", Reason: "is before start_pos"}
	}
	return nil
}

// EndpointID returns the node id a relation endpoint refers to.
func EndpointID(ep model.Endpoint) string {
	if ep.ID != "" {
		return ep.ID
	}
	return identity.Resolve(ep.Type, identity.Normalize(ep.Text))
}

func structErr(record string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidRecordError{
			Record: record,
			Field:  fieldPath(fe.Namespace()),
			Reason: "failed " + fe.Tag() + " check",
		}
	}
	return &InvalidRecordError{Record: record, Reason: err.Error()}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
