package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/solver"
	"github.com/Mshel/patrolsim/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

// ConnectionLimiter caps concurrent sessions per remote IP.
type ConnectionLimiter struct {
	mu        sync.Mutex
	ipCounter map[string]int
	limit     int
}

func NewConnectionLimiter(limit int) *ConnectionLimiter {
	return &ConnectionLimiter{ipCounter: make(map[string]int), limit: limit}
}

// Acquire reserves a slot for ip, reporting false when the ip is at its limit.
func (l *ConnectionLimiter) Acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ipCounter[ip] >= l.limit {
		return false
	}
	l.ipCounter[ip]++
	return true
}

func (l *ConnectionLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ipCounter[ip]--
	if l.ipCounter[ip] <= 0 {
		delete(l.ipCounter, ip)
	}
}

func (l *ConnectionLimiter) Count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ipCounter[ip]
}

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// Middleware rejects sessions from IPs that already hold the maximum number
// of connections.
func (l *ConnectionLimiter) Middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)

		if !l.Acquire(ip) {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "current_limit", l.limit)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", l.Count(ip), l.limit)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		log.Info("Connection accepted", "ip", ip, "current_count", l.Count(ip), "limit", l.limit)
		defer func() {
			l.Release(ip)
			log.Info("Connection closed and counter decremented", "ip", ip, "count_after", l.Count(ip))
		}()
		next(s)
	}
}

// Server serves the solver TUI over SSH, one program per session.
type Server struct {
	sshServer *ssh.Server
	address   string
}

func New(cfg config.Config, s *solver.Solver) (*Server, error) {
	limiter := NewConnectionLimiter(cfg.SSH.MaxConnectionsPerIP)

	handler := func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		model := ui.NewControllerModel(sshSession.Context(), s, cfg, pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}

	sshServer, err := wish.NewServer(
		wish.WithAddress(cfg.Address()),
		wish.WithHostKeyPath(cfg.SSH.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(handler),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh server: %w", err)
	}

	return &Server{sshServer: sshServer, address: cfg.Address()}, nil
}

// ListenAndServe blocks until the server stops. A clean shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	log.Info("Starting SSH server", "address", s.address)
	if err := s.sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Stopping SSH server")
	if err := s.sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}
