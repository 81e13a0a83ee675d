package sequence

import (
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

const (
	stateDealing = "dealing"
	statePlaying = "playing"
	stateLegal   = "legal"
	stateIllegal = "illegal"

	eventDeal     = "deal"
	eventPlay     = "play"
	eventMismatch = "mismatch"
	eventFinish   = "finish"
)

func newGame(log *logrus.Entry) *fsm.FSM {
	return fsm.NewFSM(
		stateDealing,
		fsm.Events{
			{Name: eventDeal, Src: []string{stateDealing}, Dst: statePlaying},
			{Name: eventPlay, Src: []string{statePlaying}, Dst: statePlaying},
			{Name: eventMismatch, Src: []string{statePlaying}, Dst: stateIllegal},
			{Name: eventFinish, Src: []string{stateDealing, statePlaying}, Dst: stateLegal},
		},
		fsm.Callbacks{
			"after_event": func(e *fsm.Event) {
				if e.Src != e.Dst {
					log.Debugf("[%s -> %s] %s", e.Src, e.Dst, e.Event)
				}
			},
		},
	)
}

// push fires event, treating a same-state transition as success.
func push(f *fsm.FSM, event string) error {
	err := f.Event(event)
	if _, ok := err.(fsm.NoTransitionError); err != nil && !ok {
		return err
	}
	return nil
}

// Visualize returns the Graphviz source of the game machine.
func Visualize() string {
	return fsm.Visualize(newGame(logrus.NewEntry(logrus.StandardLogger())))
}
