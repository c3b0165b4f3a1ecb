package ffprobe

import (
	"math"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1440,
     "r_frame_rate": "60/1", "avg_frame_rate": "30000/1001"},
    {"index": 1, "codec_type": "audio", "codec_name": "pcm_s16le", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "take.mov", "nb_streams": 2, "duration": "31.5", "format_name": "mov,mp4"}
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	audio, ok := result.FirstAudio()
	if !ok {
		t.Fatal("expected audio stream")
	}
	if audio.SampleRateHz() != 48000 || audio.Channels != 2 {
		t.Fatalf("unexpected audio stream: %+v", audio)
	}
	video, ok := result.FirstVideo()
	if !ok {
		t.Fatal("expected video stream")
	}
	if fps := video.FrameRate(); math.Abs(fps-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate %v", fps)
	}
	if result.DurationSeconds() != 31.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", SampleRate: "n/a"}, {CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "25"}},
		Format:  Format{Duration: "bad"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	audio, _ := result.FirstAudio()
	if audio.SampleRateHz() != 0 {
		t.Fatalf("expected sample rate 0, got %d", audio.SampleRateHz())
	}
	video, _ := result.FirstVideo()
	if video.FrameRate() != 25 {
		t.Fatalf("expected fallback frame rate 25, got %v", video.FrameRate())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFirstStreamMissing(t *testing.T) {
	if _, ok := (Result{}).FirstVideo(); ok {
		t.Fatal("expected no video stream")
	}
}
