package xrun_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/omeyang/xthreadpool/pkg/lifecycle/xrun"
)

func ExampleGroup() {
	var ticks atomic.Int32
	errDone := errors.New("done")

	g, _ := xrun.NewGroup(context.Background(), xrun.WithName("example"))
	g.Go(xrun.Ticker(time.Millisecond, true, func(context.Context) error {
		if ticks.Add(1) == 3 {
			return errDone
		}
		return nil
	}))

	err := g.Wait()
	fmt.Println(errors.Is(err, errDone), ticks.Load())
	// Output:
	// true 3
}
