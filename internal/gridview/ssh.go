package gridview

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"

	"github.com/lawnchairsociety/spelunkicons/internal/logger"
)

// termMu serializes the TERM lookup tcell does while building a screen.
var termMu sync.Mutex

// Serve runs the viewer over SSH on addr until ctx is done. Every session
// gets its own viewer starting from opts.
func Serve(ctx context.Context, addr, hostKeyPath string, opts Options) error {
	signer, err := LoadOrCreateHostKey(hostKeyPath)
	if err != nil {
		return err
	}

	srv := &gossh.Server{
		Addr:        addr,
		Handler:     func(s gossh.Session) { handleSession(s, opts) },
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("Grid viewer SSH server listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return fmt.Errorf("ssh server: %w", err)
	}
	return nil
}

func handleSession(s gossh.Session, opts Options) {
	pty, winCh, ok := s.Pty()
	if !ok {
		fmt.Fprintln(s, "The grid viewer needs a terminal. Connect with ssh -t.")
		return
	}

	term := pty.Term
	for _, env := range s.Environ() {
		if v, found := strings.CutPrefix(env, "TERM="); found {
			term = v
		}
	}
	if term == "" {
		term = "xterm-256color"
	}

	tty := newSessionTty(s, pty, winCh)
	termMu.Lock()
	os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	logger.Info("Grid viewer session started", "user", s.User(), "remote_addr", s.RemoteAddr().String())
	New(screen, opts).Run()
	logger.Info("Grid viewer session ended", "user", s.User())
}

// LoadOrCreateHostKey reads a PEM private key from path, or generates an
// ed25519 key and writes it there.
func LoadOrCreateHostKey(path string) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		signer, err := xssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse host key %s: %w", path, err)
		}
		return signer, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read host key: %w", err)
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	block, err := xssh.MarshalPrivateKey(key, "spelunkicons gridview")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create host key directory: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		return nil, fmt.Errorf("write host key: %w", err)
	}
	logger.Info("Generated new host key", "path", path)
	return signer, nil
}
