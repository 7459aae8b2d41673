package pipeline

import (
	"sync"
	"time"

	"smmaa-bot/internal/infra/metrics"
)

// Limiter serializează apelurile către modelul generativ: între startul a două
// apeluri consecutive trec cel puțin minDelay secunde, indiferent de etapa care
// le emite. Slotul se rezervă înainte de apelul de rețea, deci contractul este
// "distanță minimă între starturi", nu între finalizări. O anulare a apelantului
// nu întrerupe așteptarea: rezervarea rămâne consistentă, rezultatul se aruncă.
type Limiter struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter creează un limitator cu distanța minimă dată; zero dezactivează așteptarea.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		minDelay: minDelay,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Acquire blochează până când slotul global devine disponibil și îl rezervă.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.minDelay > 0 && !l.lastCall.IsZero() {
		elapsed := l.now().Sub(l.lastCall)
		if elapsed < l.minDelay {
			wait := l.minDelay - elapsed
			metrics.ThrottleWaitSeconds.Observe(wait.Seconds())
			l.sleep(wait)
		}
	}
	l.lastCall = l.now()
}
