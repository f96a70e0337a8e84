package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player проигрывает короткий звук целиком и возвращается после окончания.
type Player interface {
	Play(format string, r io.ReadCloser) error
}

// beepPlayer mp3/wav через faiface/beep.
type beepPlayer struct{ volumeDB float64 }

func newBeepPlayer(volumeDB float64) *beepPlayer { return &beepPlayer{volumeDB: volumeDB} }

func (p *beepPlayer) Play(format string, r io.ReadCloser) error {
	var (
		streamer beep.StreamSeekCloser
		f        beep.Format
		err      error
	)
	switch strings.ToLower(format) {
	case "wav":
		streamer, f, err = wav.Decode(r)
	case "mp3":
		streamer, f, err = mp3.Decode(r)
	default:
		return fmt.Errorf("notify: unsupported sound format %q (mp3 or wav)", format)
	}
	if err != nil {
		return fmt.Errorf("notify: decode %s: %w", format, err)
	}
	defer streamer.Close()

	if err := speaker.Init(f.SampleRate, f.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("notify: speaker init: %w", err)
	}
	done := make(chan struct{})
	vol := &effects.Volume{Streamer: streamer, Base: 2, Volume: p.volumeDB}
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))
	<-done
	return nil
}
