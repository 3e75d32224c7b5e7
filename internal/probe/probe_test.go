package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMP3 = `{
  "streams": [
    {"index": 0, "codec_name": "mp3", "codec_type": "audio",
     "sample_rate": "44100", "channels": 2, "bit_rate": "192000"}
  ],
  "format": {"filename": "track1.mp3", "format_name": "mp3",
             "duration": "161.332", "size": "3871234", "bit_rate": "192113"}
}`

func TestParseJSON_Audio(t *testing.T) {
	info, err := ParseJSON([]byte(sampleMP3))
	require.NoError(t, err)
	assert.InDelta(t, 161.332, info.DurationS, 1e-9)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, "mp3", info.Codec)
	assert.Equal(t, int64(192000), info.BitRate)
}

func TestParseJSON_BitRateFallsBackToFormat(t *testing.T) {
	body := `{
	  "streams": [{"codec_type": "audio", "codec_name": "flac",
	               "sample_rate": "48000", "channels": 2}],
	  "format": {"duration": "10.0", "bit_rate": "900000"}
	}`
	info, err := ParseJSON([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, int64(900000), info.BitRate)
}

func TestParseJSON_SkipsNonAudioStreams(t *testing.T) {
	body := `{
	  "streams": [
	    {"codec_type": "video", "codec_name": "mjpeg"},
	    {"codec_type": "audio", "codec_name": "aac",
	     "sample_rate": "44100", "channels": 2}
	  ],
	  "format": {"duration": "42.5"}
	}`
	info, err := ParseJSON([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "aac", info.Codec)
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"garbage", `not json`, "parse ffprobe JSON"},
		{"no audio stream", `{"streams":[{"codec_type":"video"}],"format":{"duration":"3"}}`, "no audio stream"},
		{"zero duration", `{"streams":[{"codec_type":"audio","sample_rate":"44100","channels":2}],"format":{}}`, "invalid duration"},
		{"zero sample rate", `{"streams":[{"codec_type":"audio","channels":2}],"format":{"duration":"3"}}`, "invalid sample rate"},
		{"zero channels", `{"streams":[{"codec_type":"audio","sample_rate":"44100"}],"format":{"duration":"3"}}`, "invalid channel count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
