package driver

import "time"

type FarmDriverOpt func(*FarmDriver)

func WithTickLength(tickLength time.Duration) FarmDriverOpt {
	return func(d *FarmDriver) {
		d.tickLength = tickLength
	}
}
