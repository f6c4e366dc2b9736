package cell

import (
	"github.com/matzehuels/tetris/pkg/abstract"
	"github.com/matzehuels/tetris/pkg/iface"
)

// ViewKind identifies one of the four view slots of a Cell.
type ViewKind int

const (
	KindInterface ViewKind = iota
	KindAbstract
	KindLayout
	KindRaw
)

var kindNames = [...]string{"interface", "abstract", "layout", "raw"}

func (k ViewKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// View is one representation of a cell. It is only a transport type for
// AddView and FromView; cells store the underlying values directly.
//
// Implementations: InterfaceView, AbstractView, *Layout, *RawLayoutPtr.
type View interface {
	Kind() ViewKind
	view()
}

// InterfaceView adapts an interface bundle into a View.
type InterfaceView iface.Bundle

// AbstractView adapts an abstract into a View.
type AbstractView abstract.Abstract

func (InterfaceView) Kind() ViewKind { return KindInterface }
func (AbstractView) Kind() ViewKind  { return KindAbstract }
func (*Layout) Kind() ViewKind       { return KindLayout }
func (*RawLayoutPtr) Kind() ViewKind { return KindRaw }

func (InterfaceView) view() {}
func (AbstractView) view()  {}
func (*Layout) view()       {}
func (*RawLayoutPtr) view() {}
