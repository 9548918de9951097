package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActiveFilter(t *testing.T) {
	t.Run("no location", func(t *testing.T) {
		filter := ActiveFilter("   ")
		if len(filter) != 1 || filter["active"] != true {
			t.Errorf("ActiveFilter() = %v, want only active=true", filter)
		}
	})

	t.Run("location searches every descriptive field", func(t *testing.T) {
		filter := ActiveFilter(" Centro ")

		or, ok := filter["$or"].([]bson.M)
		if !ok {
			t.Fatalf("$or missing or wrong type: %T", filter["$or"])
		}
		if len(or) != len(locationFields) {
			t.Fatalf("got %d clauses, want %d", len(or), len(locationFields))
		}
		for i, field := range locationFields {
			re, ok := or[i][field].(primitive.Regex)
			if !ok {
				t.Fatalf("clause %d has no regex on %s", i, field)
			}
			if re.Pattern != "Centro" || re.Options != "i" {
				t.Errorf("clause %d = %+v, want case-insensitive Centro", i, re)
			}
		}
	})

	t.Run("regex metacharacters are escaped", func(t *testing.T) {
		filter := ActiveFilter("S. Maria (centro)")
		or := filter["$or"].([]bson.M)
		re := or[0]["address"].(primitive.Regex)

		want := `S\. Maria \(centro\)`
		if re.Pattern != want {
			t.Errorf("pattern = %q, want %q", re.Pattern, want)
		}
	})
}
