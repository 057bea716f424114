package inputval

import (
	"testing"
	"time"
)

type mediaInput struct {
	URL   string `json:"url" validate:"required,httpurl" label:"Media URL"`
	Order int    `json:"order" validate:"gte=0" label:"Order"`
}

type albumInput struct {
	Title  string       `json:"title" validate:"required,max=10" label:"Title"`
	Email  string       `json:"email" validate:"omitempty,mailaddr" label:"Email"`
	Rating int          `json:"rating" validate:"required,min=1,max=5" label:"Rating"`
	Status string       `json:"status" validate:"omitempty,oneof=draft published" label:"Status"`
	Slug   string       `json:"slug" validate:"omitempty,slug"`
	Items  []mediaInput `json:"items" validate:"dive"`
}

func TestValidate(t *testing.T) {
	valid := albumInput{Title: "Album", Rating: 5}

	tests := []struct {
		name      string
		mutate    func(*albumInput)
		wantField string
		wantFirst string
	}{
		{"valid", func(*albumInput) {}, "", ""},
		{"missing title", func(a *albumInput) { a.Title = "" }, "title", "Title is required."},
		{"title too long", func(a *albumInput) { a.Title = "Album Wisuda 2025" }, "title", "Title must be at most 10 characters."},
		{"bad email", func(a *albumInput) { a.Email = "nope" }, "email", "A valid email address is required."},
		{"rating too high", func(a *albumInput) { a.Rating = 9 }, "rating", "Rating must be at most 5."},
		{"bad status", func(a *albumInput) { a.Status = "hidden" }, "status", "Status must be one of: draft, published."},
		{"bad slug", func(a *albumInput) { a.Slug = "Not A Slug" }, "slug", "Slug may contain only lowercase letters, numbers and hyphens."},
		{"nested item", func(a *albumInput) { a.Items = []mediaInput{{URL: "ftp://x"}} }, "items[0].url", "Media URL must be a valid http(s) URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			res := Validate(&in)

			if tt.wantFirst == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if !res.HasErrors() {
				t.Fatal("expected errors")
			}
			if res.Errors[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", res.Errors[0].Field, tt.wantField)
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_AllAndAdd(t *testing.T) {
	r := &Result{}
	if r.All() != "" || r.HasErrors() {
		t.Fatal("empty result should have no errors")
	}
	r.Add("registered", "Registered cannot exceed capacity.")
	r.Add("capacity", "Capacity must be at least 0.")
	want := "Registered cannot exceed capacity.; Capacity must be at least 0."
	if r.All() != want {
		t.Errorf("All() = %q, want %q", r.All(), want)
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("expected valid ObjectID")
	}
	if IsValidObjectID("penerimaan-santri-baru") {
		t.Error("expected slug to be rejected")
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	cases := map[string]bool{
		"https://res.cloudinary.com/demo/image/upload/a.jpg": true,
		"http://localhost:3000/x":                            true,
		"ftp://example.com":                                  false,
		"/relative/path":                                     false,
		"":                                                   false,
	}
	for in, want := range cases {
		if got := IsValidHTTPURL(in); got != want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2024-05-01", true, "2024-05-01T00:00:00Z"},
		{"2024-05-01T08:30:00+07:00", true, "2024-05-01T01:30:00Z"},
		{" 2024-05-01 ", true, "2024-05-01T00:00:00Z"},
		{"01/05/2024", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format(time.RFC3339) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.want)
		}
	}
}
