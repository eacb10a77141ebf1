package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"chipdec/decode"
	"chipdec/player"
)

func runPlay(cmd *Play) error {
	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	dec, err := decode.Open(data)
	if err != nil {
		return err
	}
	if cmd.Track >= dec.TrackCount() {
		return fmt.Errorf("source file has only %d tracks", dec.TrackCount())
	}
	dec.SetVolume(cmd.Volume)
	dec.SetMaxDuration(cmd.Duration)
	dec.SetFade(!cmd.NoFade)
	if err := dec.SetTrack(cmd.Track); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = player.Play(ctx, dec)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
