package screen

import (
	"fmt"

	"github.com/vanderheijden86/valentine/pkg/debug"
	"github.com/vanderheijden86/valentine/pkg/metrics"
	"github.com/vanderheijden86/valentine/pkg/progress"
)

// ChangeFunc observes a screen change. It runs after the new screen has been
// recorded and persisted.
type ChangeFunc func(from, to Screen)

// Router is the application state: the active screen plus the store that
// remembers it across runs. All transitions are decided in Dispatch.
//
// Router is not safe for concurrent use; it lives on the UI loop.
type Router struct {
	current   Screen
	store     progress.Store
	listeners []ChangeFunc
}

// New builds a router and seeds it from the store. The store is read exactly
// once here. A missing, unreadable or unrecognized value starts at Proposal.
// A recognized value is restored verbatim, even if the screens before it
// were never visited.
func New(store progress.Store) *Router {
	if store == nil {
		store = progress.NewMemoryStore()
	}
	r := &Router{current: Proposal, store: store}
	r.current = r.restore()
	return r
}

func (r *Router) restore() Screen {
	id, ok, err := r.store.Get(progress.Key)
	if err != nil {
		debug.Logger().Warn().Err(err).Msg("progress read failed; starting fresh")
		return Proposal
	}
	if !ok {
		return Proposal
	}
	s, known := Parse(id)
	if !known {
		debug.Logger().Warn().Str("value", id).Msg("unrecognized progress value; starting fresh")
		return Proposal
	}
	debug.Log("restored progress at %s", s)
	return s
}

// Current returns the active screen.
func (r *Router) Current() Screen {
	return r.current
}

// OnChange registers fn to be called after every screen change.
func (r *Router) OnChange(fn ChangeFunc) {
	r.listeners = append(r.listeners, fn)
}

// Dispatch applies ev and returns the resulting screen.
//
// The target depends only on the event. Path history is not checked, so a
// GiftChosen arriving on the proposal screen still opens that gift.
// GiftChosen with a non-gift kind is a programming error and panics.
func (r *Router) Dispatch(ev Event) Screen {
	var next Screen
	switch e := ev.(type) {
	case Confirmed:
		next = Celebration
	case Continue:
		next = GiftMenu
	case GiftChosen:
		if !e.Kind.IsGift() {
			panic(fmt.Sprintf("screen: %s is not a gift", e.Kind))
		}
		next = e.Kind
	case QuizComplete:
		next = Letter
	case LetterComplete:
		next = Photos
	case ResetRequested:
		r.reset()
		return r.current
	case DeclineActivated:
		return r.current
	default:
		panic(fmt.Sprintf("screen: unhandled event %T", ev))
	}

	r.moveTo(next, ev)
	return r.current
}

// Reset returns to Proposal and forgets persisted progress, so the next run
// also starts at Proposal.
func (r *Router) Reset() {
	r.Dispatch(ResetRequested{})
}

func (r *Router) moveTo(next Screen, ev Event) {
	from := r.current
	r.current = next

	// The write always follows the field update it records.
	done := metrics.Timer(metrics.ProgressWrite)
	err := r.store.Set(progress.Key, next.String())
	done()
	if err != nil {
		debug.Logger().Warn().Err(err).Str("screen", next.String()).Msg("progress write failed; continuing in memory")
	}
	debug.Logger().Info().
		Str("event", ev.String()).
		Str("from", from.String()).
		Str("to", next.String()).
		Msg("transition")

	r.notify(from, next)
}

func (r *Router) reset() {
	from := r.current
	r.current = Proposal

	if err := r.store.Delete(progress.Key); err != nil {
		debug.Logger().Warn().Err(err).Msg("progress delete failed; continuing in memory")
	}
	debug.Logger().Info().Str("from", from.String()).Msg("reset")

	r.notify(from, Proposal)
}

func (r *Router) notify(from, to Screen) {
	for _, fn := range r.listeners {
		fn(from, to)
	}
}
