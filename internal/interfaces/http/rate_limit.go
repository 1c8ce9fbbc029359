package http

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
)

const (
	limiterIdle  = 10 * time.Minute
	limiterSweep = 3 * time.Minute
	// Varios dispositivos de un mismo local suelen salir por la misma IP.
	ipQuotaFactor = 4
)

type limiterSlot struct {
	lim  *rate.Limiter
	seen time.Time
}

// LoginRateLimiter token bucket para POST /login con dos cubetas por petición:
// una por IP de origen y otra por cookie de dispositivo. La cookie la controla
// el cliente, así que la cubeta por IP es la que acota a quien la descarta.
type LoginRateLimiter struct {
	mu       sync.Mutex
	slots    map[string]*limiterSlot
	every    rate.Limit
	interval time.Duration
	burst    int
	now      func() time.Time
	stop     chan struct{}
	stopped  sync.Once
}

// NewLoginRateLimiter perMinute <= 0 desactiva el límite.
// Si está activo arranca la limpieza periódica de cubetas inactivas; liberar con Close.
func NewLoginRateLimiter(perMinute, burst int) *LoginRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &LoginRateLimiter{
		slots: make(map[string]*limiterSlot),
		burst: burst,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if perMinute > 0 {
		l.interval = time.Minute / time.Duration(perMinute)
		l.every = rate.Every(l.interval)
		go l.cleanupLoop()
	}
	return l
}

// Close detiene la limpieza periódica. Idempotente y seguro con nil.
func (l *LoginRateLimiter) Close() {
	if l == nil {
		return
	}
	l.stopped.Do(func() { close(l.stop) })
}

func (l *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterSweep)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.prune(l.now())
		}
	}
}

// prune elimina las cubetas sin uso por más de limiterIdle.
func (l *LoginRateLimiter) prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, s := range l.slots {
		if now.Sub(s.seen) > limiterIdle {
			delete(l.slots, k)
		}
	}
}

// Len número de cubetas vivas.
func (l *LoginRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Allow consume un intento de la clave dada (cuota base).
func (l *LoginRateLimiter) Allow(key string) bool {
	if l == nil || l.every == 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slotLocked(key, 1, now).AllowN(now, 1)
}

// AllowLogin consume un intento de la IP y uno del dispositivo. Si alguna
// cubeta está vacía no se consume ninguna.
func (l *LoginRateLimiter) AllowLogin(ip, deviceID string) bool {
	if l == nil || l.every == 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	ipRes := l.slotLocked("ip:"+ip, ipQuotaFactor, now).ReserveN(now, 1)
	if !ipRes.OK() || ipRes.DelayFrom(now) > 0 {
		ipRes.CancelAt(now)
		return false
	}
	if deviceID == "" {
		return true
	}
	devRes := l.slotLocked("dev:"+deviceID, 1, now).ReserveN(now, 1)
	if !devRes.OK() || devRes.DelayFrom(now) > 0 {
		devRes.CancelAt(now)
		ipRes.CancelAt(now)
		return false
	}
	return true
}

func (l *LoginRateLimiter) slotLocked(key string, factor int, now time.Time) *rate.Limiter {
	s, ok := l.slots[key]
	if !ok {
		s = &limiterSlot{lim: rate.NewLimiter(l.every*rate.Limit(factor), l.burst*factor)}
		l.slots[key] = s
	}
	s.seen = now
	return s.lim
}

// retryAfter segundos hasta el próximo intento disponible en la cuota base.
func (l *LoginRateLimiter) retryAfter() int {
	return max(int(math.Ceil(l.interval.Seconds())), 1)
}

// Middleware responde 429 cuando la IP o el dispositivo agotaron sus intentos.
func (l *LoginRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.AllowLogin(c.IP(), GetDeviceID(c)) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(l.retryAfter()))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    dto.CodeTooManyRequests,
				Message: domain.ErrTooManyAttempts.Error(),
			})
		}
		return c.Next()
	}
}
