package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/node"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/aretw0/acceptance/pkg/scenario"
	"github.com/cucumber/godog"
)

// Harness is what the step definitions need from the running suite.
type Harness interface {
	Reboot(ctx context.Context, host string) (domain.HostState, error)
	WaitForShutdown(ctx context.Context, host string, timeout time.Duration) (domain.HostState, error)
	WaitForRestart(ctx context.Context, host string, timeout time.Duration) (domain.HostState, error)
	RebootTimeout() time.Duration
	Channel(host string) ports.CommandChannel
	Vars() *scenario.Context
}

type suite struct {
	h Harness
}

// Register binds the step definitions to sc.
// Every scenario runs with its feature file URI as the context scope.
func Register(sc *godog.ScenarioContext, h Harness) {
	s := &suite{h: h}

	sc.Before(func(ctx context.Context, pickle *godog.Scenario) (context.Context, error) {
		return scenario.WithScope(ctx, domain.FeatureScope(pickle.Uri)), nil
	})

	sc.Step(`^I reboot "([^"]*)"$`, s.iReboot)
	sc.Step(`^"([^"]*)" should go down$`, s.shouldGoDown)
	sc.Step(`^"([^"]*)" should go down within (\d+) seconds$`, s.shouldGoDownWithin)
	sc.Step(`^"([^"]*)" should come back$`, s.shouldComeBack)
	sc.Step(`^"([^"]*)" should come back within (\d+) seconds$`, s.shouldComeBackWithin)

	sc.Step(`^I remember "([^"]*)" as "([^"]*)"$`, s.iRemember)
	sc.Step(`^"([^"]*)" should be remembered as "([^"]*)"$`, s.shouldBeRemembered)
	sc.Step(`^nothing should be remembered as "([^"]*)"$`, s.nothingRemembered)
	sc.Step(`^I remember the uptime of "([^"]*)" as "([^"]*)"$`, s.iRememberUptime)

	sc.Step(`^"([^"]*)" should be a (suse|slemicro|redhat|debian) host$`, s.shouldBeFamily)
	sc.Step(`^the OS family of "([^"]*)" should be "([^"]*)"$`, s.osFamilyShouldBe)
}

func (s *suite) iReboot(ctx context.Context, host string) error {
	_, err := s.h.Reboot(ctx, host)
	return err
}

func (s *suite) shouldGoDown(ctx context.Context, host string) error {
	return s.shouldGoDownWithin(ctx, host, int(s.h.RebootTimeout()/time.Second))
}

func (s *suite) shouldGoDownWithin(ctx context.Context, host string, seconds int) error {
	_, err := s.h.WaitForShutdown(ctx, host, time.Duration(seconds)*time.Second)
	return err
}

func (s *suite) shouldComeBack(ctx context.Context, host string) error {
	return s.shouldComeBackWithin(ctx, host, int(s.h.RebootTimeout()/time.Second))
}

func (s *suite) shouldComeBackWithin(ctx context.Context, host string, seconds int) error {
	_, err := s.h.WaitForRestart(ctx, host, time.Duration(seconds)*time.Second)
	return err
}

func (s *suite) iRemember(ctx context.Context, value, key string) error {
	return s.h.Vars().Set(ctx, key, value)
}

func (s *suite) shouldBeRemembered(ctx context.Context, value, key string) error {
	got, ok, err := s.h.Vars().GetString(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing remembered as %q", key)
	}
	if got != value {
		return fmt.Errorf("%q is remembered as %q, expected %q", key, got, value)
	}
	return nil
}

func (s *suite) nothingRemembered(ctx context.Context, key string) error {
	got, ok, err := s.h.Vars().Get(ctx, key)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%q is remembered as %v", key, got)
	}
	return nil
}

func (s *suite) iRememberUptime(ctx context.Context, host, key string) error {
	up, err := node.UptimeOf(ctx, s.h.Channel(host))
	if err != nil {
		return fmt.Errorf("uptime of %s: %w", host, err)
	}
	return s.h.Vars().Set(ctx, key, up.Seconds)
}

func (s *suite) shouldBeFamily(host, family string) error {
	if got := node.ClassifyHost(host); got.String() != family {
		return fmt.Errorf("%s is a %s host, expected %s", host, got, family)
	}
	return nil
}

func (s *suite) osFamilyShouldBe(ctx context.Context, host, family string) error {
	_, got, ok, err := node.OSRelease(ctx, s.h.Channel(host))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("could not read /etc/os-release on %s", host)
	}
	if got != family {
		return fmt.Errorf("%s runs %s, expected %s", host, got, family)
	}
	return nil
}
