package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/jobscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestNewPool(t *testing.T) {
	Convey("Given pool construction", t, func() {
		Convey("When the size is not positive", func() {
			p := NewPool(0)

			Convey("Then a CPU based default is used", func() {
				So(p.Size(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When options are passed", func() {
			p := NewPool(3, WithName("scorers"), WithLogger(logger.Get()))

			Convey("Then they should be applied", func() {
				So(p.Size(), ShouldEqual, 3)
				So(p.name, ShouldEqual, "scorers")
			})
		})
	})
}

func TestPoolRun(t *testing.T) {
	Convey("Given a pool of four workers", t, func() {
		p := NewPool(4)
		ctx := context.Background()

		Convey("When running a job per index", func() {
			out := make([]int, 100)
			err := p.Run(ctx, len(out), func(_ context.Context, i int) error {
				out[i] = i * i
				return nil
			})

			Convey("Then every index should be processed exactly once", func() {
				So(err, ShouldBeNil)
				for i, v := range out {
					So(v, ShouldEqual, i*i)
				}
			})
		})

		Convey("When there is no work", func() {
			called := false
			err := p.Run(ctx, 0, func(context.Context, int) error {
				called = true
				return nil
			})

			Convey("Then no job runs", func() {
				So(err, ShouldBeNil)
				So(called, ShouldBeFalse)
			})
		})

		Convey("When concurrency is observed", func() {
			var active, peak int32
			err := p.Run(ctx, 40, func(context.Context, int) error {
				cur := atomic.AddInt32(&active, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})

			Convey("Then it should never exceed the pool size", func() {
				So(err, ShouldBeNil)
				So(atomic.LoadInt32(&peak), ShouldBeLessThanOrEqualTo, 4)
			})
		})

		Convey("When a job fails", func() {
			boom := errors.New("boom")
			var ran int32
			err := p.Run(ctx, 1000, func(ctx context.Context, i int) error {
				atomic.AddInt32(&ran, 1)
				if i == 3 {
					return boom
				}
				return nil
			})

			Convey("Then the error is returned and remaining work is cut short", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(atomic.LoadInt32(&ran), ShouldBeLessThan, 1000)
			})
		})

		Convey("When the parent context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := p.Run(cctx, 10, func(ctx context.Context, i int) error {
				return ctx.Err()
			})

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
