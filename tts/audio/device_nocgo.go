//go:build nocgo
// +build nocgo

package audio

import "errors"

func openDevice(PlayerConfig) (device, error) {
	return nil, errors.New("audio not available in nocgo build")
}
