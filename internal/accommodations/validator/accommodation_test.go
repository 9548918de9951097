package validator

import (
	"errors"
	"strings"
	"testing"

	"stayhost/pkg/logger"
	"stayhost/pkg/model"
	"stayhost/pkg/validation"
)

func validAccommodation() *model.Accommodation {
	return &model.Accommodation{
		Slug:      "villa-mare",
		Name:      "Villa Mare",
		Capacity:  "4+1 persone",
		Price:     "da 120€/notte",
		Features:  []string{"Wi-Fi", "Parcheggio"},
		MainImage: "/images/villa-mare.jpg",
		Images:    []string{"https://cdn.example.com/villa-1.jpg"},
		Active:    true,
		Priority:  10,
	}
}

func TestValidate(t *testing.T) {
	v := NewAccommodationValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(a *model.Accommodation)
		wantField string
	}{
		{name: "valid", mutate: func(a *model.Accommodation) {}},
		{name: "missing name", mutate: func(a *model.Accommodation) { a.Name = "" }, wantField: "name"},
		{name: "uppercase slug", mutate: func(a *model.Accommodation) { a.Slug = "Villa-Mare" }, wantField: "slug"},
		{name: "double hyphen slug", mutate: func(a *model.Accommodation) { a.Slug = "villa--mare" }, wantField: "slug"},
		{name: "missing capacity", mutate: func(a *model.Accommodation) { a.Capacity = "" }, wantField: "capacity"},
		{name: "priority too high", mutate: func(a *model.Accommodation) { a.Priority = 1001 }, wantField: "priority"},
		{name: "empty feature", mutate: func(a *model.Accommodation) { a.Features = []string{"Wi-Fi", ""} }, wantField: "features[1]"},
		{name: "javascript image", mutate: func(a *model.Accommodation) { a.MainImage = "javascript:alert(1)" }, wantField: "main_image"},
		{name: "protocol relative image", mutate: func(a *model.Accommodation) { a.MainImage = "//cdn.example.com/a.jpg" }, wantField: "main_image"},
		{name: "bad gallery image", mutate: func(a *model.Accommodation) { a.Images = []string{"ftp://x/a.jpg"} }, wantField: "images[0]"},
		{name: "no main image", mutate: func(a *model.Accommodation) { a.MainImage = "" }},
		{name: "active without numeric capacity", mutate: func(a *model.Accommodation) { a.Capacity = "famiglia" }, wantField: "capacity"},
		{name: "inactive without numeric capacity", mutate: func(a *model.Accommodation) {
			a.Capacity = "famiglia"
			a.Active = false
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAccommodation()
			tt.mutate(a)

			err := v.Validate(a)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var errs validation.ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
					if strings.TrimSpace(e.Message) == "" {
						t.Errorf("empty message for %s", e.Field)
					}
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want one on %s", errs, tt.wantField)
			}
		})
	}
}
