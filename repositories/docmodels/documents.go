package docmodels

import (
	"bytes"
	"encoding/json"

	"github.com/civicwaste/swm-backend/models"
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JsonToDocument converts a JSON object into an ordered bson document. Empty input yields
// a nil document.
func JsonToDocument(raw json.RawMessage) (bson.D, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, errors.Wrap(models.BadParameterError, "payload must be a JSON object")
	}
	return doc, nil
}

// DocumentToJson is the inverse of JsonToDocument, in relaxed extended JSON.
func DocumentToJson(doc any) (json.RawMessage, error) {
	if doc == nil {
		return nil, nil
	}
	if d, ok := doc.(bson.D); ok && d == nil {
		return nil, nil
	}
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, errors.Wrap(err, "error converting document to json")
	}
	return out, nil
}

// IdFilter matches a document by its _id, which is an ObjectID when the id is a valid
// hex object id and a plain string otherwise.
func IdFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: DocumentId(id)}}
}

func DocumentId(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// IdString renders an inserted or stored _id value as the string callers address it by.
func IdString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	}
	out, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: id}}, false, false)
	if err != nil {
		return ""
	}
	var wrapped struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(out, &wrapped); err != nil {
		return ""
	}
	return string(bytes.Trim(wrapped.V, `"`))
}

// AdaptEntityDocument turns a stored document into a plain row, with _id rendered as a string.
func AdaptEntityDocument(doc bson.M) (models.EntityRow, error) {
	if id, ok := doc["_id"]; ok {
		doc["_id"] = IdString(id)
	}
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, errors.Wrap(err, "error converting document to json")
	}
	var row models.EntityRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.Wrap(err, "error decoding document json")
	}
	return row, nil
}
