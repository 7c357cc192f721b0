package reveal

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// sampler polls the radius until the controller stops animating.
func sampler(c *Controller) func() []float64 {
	var (
		mu      sync.Mutex
		samples []float64
		wg      sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		done := c.Done()
		for {
			mu.Lock()
			samples = append(samples, c.Radius())
			mu.Unlock()
			select {
			case <-done:
				mu.Lock()
				samples = append(samples, c.Radius())
				mu.Unlock()
				return
			case <-time.After(500 * time.Microsecond):
			}
		}
	}()
	return func() []float64 {
		wg.Wait()
		mu.Lock()
		defer mu.Unlock()
		return samples
	}
}

func nonDecreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}

func nonIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1] {
			return false
		}
	}
	return true
}

var _ = Describe("Controller", func() {
	var (
		cfg    Config
		logger *slog.Logger
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		cfg = DefaultConfig(100)
		cfg.MinRadius = 8
		cfg.StartDelay = 5 * time.Millisecond
		cfg.Duration = 60 * time.Millisecond
		cfg.Interval = time.Millisecond
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	Describe("startup grow", func() {
		It("starts idle at the initial radius", func() {
			c, err := NewController(cfg, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Phase()).To(Equal(Idle))
			Expect(c.Radius()).To(Equal(0.0))
			Expect(c.Animating()).To(BeFalse())
		})

		It("grows monotonically and settles exactly at the max radius", func() {
			c, _ := NewController(cfg, logger)
			Expect(c.Start(ctx)).To(BeTrue())
			collect := sampler(c)

			Eventually(c.Phase).WithTimeout(time.Second).Should(Equal(Growing))
			Expect(c.Wait(ctx)).To(Succeed())

			samples := collect()
			Expect(nonDecreasing(samples)).To(BeTrue(), "samples: %v", samples)
			Expect(c.Radius()).To(Equal(100.0))
			Expect(c.Phase()).To(Equal(Settled))
			Expect(c.Animating()).To(BeFalse())
		})

		It("ignores a second start while animating", func() {
			c, _ := NewController(cfg, logger)
			Expect(c.Start(ctx)).To(BeTrue())
			Expect(c.Start(ctx)).To(BeFalse())
			Expect(c.Wait(ctx)).To(Succeed())
		})
	})

	Describe("restart", func() {
		It("is ignored before the first grow", func() {
			c, _ := NewController(cfg, logger)

			Expect(c.Restart(ctx)).To(BeFalse())
			Expect(c.Phase()).To(Equal(Idle))
			Expect(c.Animating()).To(BeFalse())
			Expect(c.Radius()).To(Equal(0.0))
			Expect(c.Done()).To(BeClosed())
		})

		It("is ignored while the startup grow is running", func() {
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Eventually(c.Phase).WithTimeout(time.Second).Should(Equal(Growing))

			Expect(c.Restart(ctx)).To(BeFalse())
			Expect(c.Phase()).To(Equal(Growing))

			Expect(c.Wait(ctx)).To(Succeed())
			Expect(c.Radius()).To(Equal(100.0))
		})

		It("shrinks to the min radius then grows back", func() {
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Expect(c.Wait(ctx)).To(Succeed())

			Expect(c.Restart(ctx)).To(BeTrue())
			Expect(c.Phase()).To(Equal(Shrinking))

			var shrink []float64
			for {
				r, phase := c.State()
				if phase != Shrinking {
					break
				}
				shrink = append(shrink, r)
				time.Sleep(500 * time.Microsecond)
			}
			Expect(nonIncreasing(shrink)).To(BeTrue(), "shrink samples: %v", shrink)

			// The grow phase starts from the snapped min radius.
			Expect(c.Radius()).To(BeNumerically(">=", 8.0))
			Expect(c.Restart(ctx)).To(BeFalse())

			Expect(c.Wait(ctx)).To(Succeed())
			Expect(c.Radius()).To(Equal(100.0))
			Expect(c.Phase()).To(Equal(Settled))
		})

		It("snaps to the target when canceled mid-transition", func() {
			cfg.Duration = time.Hour
			cfg.StartDelay = 0
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Eventually(c.Phase).WithTimeout(time.Second).Should(Equal(Growing))

			cancel()
			Eventually(c.Animating).WithTimeout(time.Second).Should(BeFalse())
			Expect(c.Radius()).To(Equal(100.0))
			Expect(c.Phase()).To(Equal(Settled))
		})
	})

	Describe("step mode", func() {
		BeforeEach(func() {
			cfg.Mode = ModeStep
			cfg.StepSize = 30
		})

		It("grows by one step per tick and settles at the max radius", func() {
			c, _ := NewController(cfg, logger)
			Expect(c.Start(ctx)).To(BeTrue())

			c.Tick()
			Expect(c.Radius()).To(Equal(30.0))
			c.Tick()
			c.Tick()
			Expect(c.Radius()).To(Equal(90.0))
			c.Tick()
			Expect(c.Radius()).To(Equal(100.0))
			Expect(c.Phase()).To(Equal(Settled))
			Expect(c.Done()).To(BeClosed())
		})

		It("runs the shrink then grow cycle from ticks", func() {
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			for c.Animating() {
				c.Tick()
			}

			Expect(c.Restart(ctx)).To(BeTrue())
			for i := 0; i < 4; i++ {
				c.Tick()
			}
			Expect(c.Radius()).To(Equal(8.0))
			Expect(c.Phase()).To(Equal(Growing))

			for c.Animating() {
				c.Tick()
			}
			Expect(c.Radius()).To(Equal(100.0))
		})
	})

	Describe("max radius updates", func() {
		It("moves a settled radius to the new target", func() {
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Expect(c.Wait(ctx)).To(Succeed())

			c.SetMaxRadius(250)
			Expect(c.Radius()).To(Equal(250.0))
			Expect(c.Config().MaxRadius).To(Equal(250.0))
		})

		It("follows a max radius change made mid-grow", func() {
			cfg.StartDelay = 0
			cfg.Duration = 200 * time.Millisecond
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Eventually(c.Phase).WithTimeout(time.Second).Should(Equal(Growing))

			c.SetMaxRadius(400)
			Expect(c.Wait(ctx)).To(Succeed())

			radius, phase := c.State()
			Expect(phase).To(Equal(Settled))
			Expect(radius).To(Equal(400.0))
		})

		It("follows a max radius change made during the regrow", func() {
			cfg.StartDelay = 0
			cfg.Duration = 150 * time.Millisecond
			c, _ := NewController(cfg, logger)
			c.Start(ctx)
			Expect(c.Wait(ctx)).To(Succeed())

			Expect(c.Restart(ctx)).To(BeTrue())
			Eventually(c.Phase).WithTimeout(2 * time.Second).Should(Equal(Growing))

			c.SetMaxRadius(50)
			Expect(c.Wait(ctx)).To(Succeed())
			Expect(c.Radius()).To(Equal(50.0))
			Expect(c.Phase()).To(Equal(Settled))
		})
	})
})
