package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalSort(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			"digit runs compare numerically",
			[]string{"t10", "t2", "t1"},
			[]string{"t1", "t2", "t10"},
		},
		{
			"full filenames",
			[]string{"track10.mp3", "track2.mp3", "track1.mp3"},
			[]string{"track1.mp3", "track2.mp3", "track10.mp3"},
		},
		{
			"case insensitive",
			[]string{"Beta.mp3", "alpha.mp3"},
			[]string{"alpha.mp3", "Beta.mp3"},
		},
		{
			"leading zeros",
			[]string{"t010.mp3", "t2.mp3", "t0002.mp3"},
			[]string{"t2.mp3", "t0002.mp3", "t010.mp3"},
		},
		{
			"mixed digit and text runs",
			[]string{"disc2track10", "disc2track9", "disc10track1"},
			[]string{"disc2track9", "disc2track10", "disc10track1"},
		},
		{
			"prefix sorts first",
			[]string{"ab.mp3", "a.mp3"},
			[]string{"a.mp3", "ab.mp3"},
		},
		{
			"huge numbers do not overflow",
			[]string{"t99999999999999999999.mp3", "t100000000000000000000.mp3"},
			[]string{"t99999999999999999999.mp3", "t100000000000000000000.mp3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string(nil), tt.in...)
			NaturalSort(got)
			assert.Equal(t, tt.want, got)
		})
	}
}
