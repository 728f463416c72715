package emulator

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComposePath(t *testing.T) {
	sep := string(os.PathSeparator)
	at := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		ext  string
		want string
	}{
		{
			name: "date only",
			cfg:  Config{OutputDir: "/tmp", FileTemplate: "label-%timestamp%", DateFormat: "Y-m-d"},
			ext:  "pdf",
			want: "/tmp" + sep + "label-2024-01-02.pdf",
		},
		{
			name: "default format",
			cfg:  Config{OutputDir: "/tmp", FileTemplate: "label-%timestamp%", DateFormat: "Y-m-d_H-i-s"},
			ext:  "pdf",
			want: "/tmp" + sep + "label-2024-01-02_15-04-05.pdf",
		},
		{
			name: "trailing separators trimmed",
			cfg:  Config{OutputDir: "/var/labels" + sep + sep, FileTemplate: "x-%timestamp%", DateFormat: "Ymd"},
			ext:  "png",
			want: "/var/labels" + sep + "x-20240102.png",
		},
		{
			name: "template without placeholder",
			cfg:  Config{OutputDir: "/tmp", FileTemplate: "latest", DateFormat: "Y"},
			ext:  "pdf",
			want: "/tmp" + sep + "latest.pdf",
		},
		{
			name: "placeholder repeated",
			cfg:  Config{OutputDir: "/tmp", FileTemplate: "%timestamp%/%timestamp%", DateFormat: "Y"},
			ext:  "pdf",
			want: "/tmp" + sep + "2024/2024.pdf",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComposePath(tc.cfg, tc.ext, at))
		})
	}
}

func TestComposePath_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	at := time.Date(2030, time.June, 7, 8, 9, 10, 0, time.Local)
	assert.Equal(t, ComposePath(cfg, "pdf", at), ComposePath(cfg, "pdf", at))
}
