// Package component defines the behavior protocol attached to scene instances
// and the built-in behaviors.
package component

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

var (
	ErrUnknownKind  = errors.New("component: unknown behavior kind")
	ErrScriptFailed = errors.New("component: script failed")
)

// Behavior is per-entity logic driven by the instance lifecycle.
//
// Start runs once before the first Update. Both may read or write any body
// through the store, but must not keep a *physics.RigidBody across calls.
// Input sees every event the host forwards; the return value reports whether
// the behavior claimed it.
type Behavior interface {
	Start(bodies *physics.Store, h physics.Handle) error
	Update(dt float64, bodies *physics.Store, h physics.Handle) error
	Input(evt input.Event) bool
}

// Kind selects one of the built-in behaviors.
type Kind uint8

const (
	KindNone Kind = iota
	KindController
	KindBounce
	KindDeflect
	KindScript
)

var kindNames = [...]string{
	KindNone:       "none",
	KindController: "controller",
	KindBounce:     "bounce",
	KindDeflect:    "deflect",
	KindScript:     "script",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind maps a scene file name to a Kind. The empty string means none.
func ParseKind(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return KindNone, nil
	}
	for k, n := range kindNames {
		if n == s {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
