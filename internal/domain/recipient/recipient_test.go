package recipient

import "testing"

func TestFieldFirstNonEmptyWins(t *testing.T) {
	t.Parallel()
	r := RawRow{Fields: map[string]string{
		"phone":  "",
		"mobile": "0712345678",
	}}
	if got := r.Field(PhoneFieldKeys...); got != "0712345678" {
		t.Fatalf("Field = %q, want fallback key value", got)
	}
}

func TestFieldAllEmpty(t *testing.T) {
	t.Parallel()
	r := RawRow{Fields: map[string]string{"phone": ""}}
	if got := r.Field(PhoneFieldKeys...); got != "" {
		t.Fatalf("Field = %q, want empty", got)
	}
}

func TestHasFieldDistinguishesSchemaFromValue(t *testing.T) {
	t.Parallel()
	withKey := RawRow{Fields: map[string]string{"opt_in_status": ""}}
	if !withKey.HasField(OptInFieldKeys...) {
		t.Fatal("HasField = false for present-but-empty field")
	}
	withoutKey := RawRow{Fields: map[string]string{"phone": "x"}}
	if withoutKey.HasField(OptInFieldKeys...) {
		t.Fatal("HasField = true for absent field")
	}
}
