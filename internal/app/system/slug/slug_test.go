package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Penerimaan Santri Baru 2025", "penerimaan-santri-baru-2025"},
		{"  Hello,   World!  ", "hello-world"},
		{"Kajian Rutin: Tafsir Al-Qur'an", "kajian-rutin-tafsir-al-qur-an"},
		{"École Française", "ecole-francaise"},
		{"---already--hyphenated---", "already-hyphenated"},
		{"UPPER lower MiXeD", "upper-lower-mixed"},
		{"", ""},
		{"!!!", ""},
		{"Ramaḍān 1446 H", "ramadan-1446-h"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMake_CaseAndPunctuationInsensitive(t *testing.T) {
	a := Make("Wisuda Tahfidz Angkatan 5")
	b := Make("wisuda   tahfidz, ANGKATAN 5!")
	if a != b {
		t.Errorf("expected same slug, got %q and %q", a, b)
	}
}

func TestMake_Idempotent(t *testing.T) {
	s := Make("Lomba Kaligrafi & Adzan Tingkat Provinsi")
	if Make(s) != s {
		t.Errorf("Make is not idempotent: %q -> %q", s, Make(s))
	}
}

func TestMake_Truncates(t *testing.T) {
	got := Make(strings.Repeat("ab ", 100))
	if len(got) > MaxLen {
		t.Errorf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug ends with hyphen: %q", got)
	}
}

func TestValid(t *testing.T) {
	if !Valid("kegiatan-ramadhan") {
		t.Error("expected kegiatan-ramadhan to be valid")
	}
	if Valid("Kegiatan Ramadhan") {
		t.Error("expected title-cased text to be invalid")
	}
	if Valid("") {
		t.Error("expected empty to be invalid")
	}
}
