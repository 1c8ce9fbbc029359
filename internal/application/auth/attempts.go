package auth

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/restaurante-cliente/internal/domain"
)

// DefaultAttemptIdle tiempo sin actividad tras el cual se descarta el estado de un dispositivo.
// Debe superar la duración máxima de un login (backend + cascada de roles).
const DefaultAttemptIdle = 15 * time.Minute

// AttemptSequencer ordena los intentos de login por dispositivo.
// Una respuesta de login solo escribe en el almacén si sigue siendo el intento más reciente
// del dispositivo; logout también avanza el intento vigente.
// Los números salen de un contador único, así un dispositivo purgado y recreado nunca repite uno.
type AttemptSequencer struct {
	mu        sync.Mutex
	devices   map[string]*deviceSlot
	next      atomic.Uint64
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type deviceSlot struct {
	mu       sync.Mutex // serializa escrituras del dispositivo
	seq      uint64
	lastSeen time.Time
	dead     bool
}

// NewAttemptSequencer crea un secuenciador vacío con DefaultAttemptIdle.
func NewAttemptSequencer() *AttemptSequencer {
	return &AttemptSequencer{
		devices: make(map[string]*deviceSlot),
		idle:    DefaultAttemptIdle,
		now:     time.Now,
	}
}

// acquire devuelve el slot del dispositivo bloqueado. Un slot purgado entre la búsqueda y el
// bloqueo se descarta y se busca de nuevo.
func (a *AttemptSequencer) acquire(deviceID string) *deviceSlot {
	for {
		a.mu.Lock()
		now := a.now()
		a.sweepLocked(now)
		s, ok := a.devices[deviceID]
		if !ok {
			s = &deviceSlot{}
			a.devices[deviceID] = s
		}
		s.lastSeen = now
		a.mu.Unlock()

		s.mu.Lock()
		if !s.dead {
			return s
		}
		s.mu.Unlock()
	}
}

// sweepLocked purga slots inactivos como máximo una vez por media ventana. Requiere a.mu.
func (a *AttemptSequencer) sweepLocked(now time.Time) {
	if a.idle <= 0 || now.Sub(a.lastSweep) < a.idle/2 {
		return
	}
	a.lastSweep = now
	for id, s := range a.devices {
		if now.Sub(s.lastSeen) <= a.idle || !s.mu.TryLock() {
			continue
		}
		s.dead = true
		delete(a.devices, id)
		s.mu.Unlock()
	}
}

// Begin registra un nuevo intento y devuelve su número.
func (a *AttemptSequencer) Begin(deviceID string) uint64 {
	s := a.acquire(deviceID)
	defer s.mu.Unlock()
	s.seq = a.next.Add(1)
	return s.seq
}

// Commit ejecuta fn solo si seq sigue siendo el intento vigente. Si no, devuelve domain.ErrLoginSuperseded.
func (a *AttemptSequencer) Commit(deviceID string, seq uint64, fn func() error) error {
	s := a.acquire(deviceID)
	defer s.mu.Unlock()
	if s.seq != seq {
		return domain.ErrLoginSuperseded
	}
	return fn()
}

// Invalidate descarta cualquier intento en curso y ejecuta fn con el dispositivo bloqueado.
func (a *AttemptSequencer) Invalidate(deviceID string, fn func() error) error {
	s := a.acquire(deviceID)
	defer s.mu.Unlock()
	s.seq = a.next.Add(1)
	if fn == nil {
		return nil
	}
	return fn()
}

// Current número del intento vigente (0 si el dispositivo no tiene estado).
func (a *AttemptSequencer) Current(deviceID string) uint64 {
	a.mu.Lock()
	s, ok := a.devices[deviceID]
	a.mu.Unlock()
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Len cantidad de dispositivos con estado retenido.
func (a *AttemptSequencer) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.devices)
}
