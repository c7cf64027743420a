package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/config"
)

// FTPConnector dials a fresh FTP session per report run.
type FTPConnector struct {
	cfg    config.FTP
	logger *zap.Logger
}

func NewFTPConnector(cfg config.FTP, logger *zap.Logger) *FTPConnector {
	return &FTPConnector{cfg: cfg, logger: logger}
}

func (c *FTPConnector) Connect(ctx context.Context) (Connection, error) {
	return Dial(ctx, c.cfg, c.logger)
}

// FTPClient fetches feed files over FTP with an idempotent on-disk cache.
// It holds one control connection; report runs are sequential, so the
// connection is not shared between goroutines.
type FTPClient struct {
	conn   *ftp.ServerConn
	logger *zap.Logger
}

// Dial connects and logs in. A failure here is fatal for the whole run.
func Dial(ctx context.Context, cfg config.FTP, logger *zap.Logger) (*FTPClient, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("login as %s: %w", cfg.User, err)
	}
	logger.Info("FTP connection established", zap.String("addr", addr))
	return &FTPClient{conn: conn, logger: logger}, nil
}

// Quit closes the control connection.
func (c *FTPClient) Quit() error {
	return c.conn.Quit()
}

// Fetch implements Fetcher. An existing cache file short-circuits the
// transfer; a remote 550 reply maps to OutcomeNotFound.
func (c *FTPClient) Fetch(ctx context.Context, remotePath, localPath string) (Outcome, error) {
	if _, err := os.Stat(localPath); err == nil {
		return OutcomeCached, nil
	}

	resp, err := c.conn.Retr(remotePath)
	if err != nil {
		if isNotFound(err) {
			return OutcomeNotFound, nil
		}
		return OutcomeTransferError, fmt.Errorf("retrieve %s: %w", remotePath, err)
	}
	defer resp.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return OutcomeTransferError, fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.Create(localPath)
	if err != nil {
		return OutcomeTransferError, fmt.Errorf("create cache file: %w", err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		os.Remove(localPath) // never leave a truncated file behind the cache check
		return OutcomeTransferError, fmt.Errorf("download %s: %w", remotePath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(localPath)
		return OutcomeTransferError, fmt.Errorf("flush cache file: %w", err)
	}

	c.logger.Debug("downloaded feed file", zap.String("remote", remotePath))
	return OutcomeDownloaded, nil
}

func isNotFound(err error) bool {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		return proto.Code == ftp.StatusFileUnavailable
	}
	return false
}

// StructureNode is one entry of a remote directory scan.
type StructureNode struct {
	Name      string           `json:"name,omitempty"`
	Path      string           `json:"path"`
	Type      string           `json:"type"` // "directory" or "file"
	Size      uint64           `json:"size,omitempty"`
	Format    string           `json:"format,omitempty"`
	ScannedAt string           `json:"scanned_at,omitempty"`
	Children  []*StructureNode `json:"children,omitempty"`
}

// SaveStructure persists a scan result as pretty-printed JSON.
func SaveStructure(path string, node *StructureNode) error {
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write structure file: %w", err)
	}
	return nil
}

// ScanStructure walks the remote tree from root, collecting CSV files and
// descending into subdirectories up to maxDepth levels.
func (c *FTPClient) ScanStructure(ctx context.Context, root string, maxDepth int) (*StructureNode, error) {
	node := &StructureNode{
		Path:      root,
		Type:      "directory",
		ScannedAt: time.Now().Format(time.RFC3339),
	}
	if maxDepth <= 0 {
		c.logger.Warn("scan depth limit reached", zap.String("path", root))
		return node, nil
	}

	entries, err := c.conn.List(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		childPath := strings.TrimRight(root, "/") + "/" + entry.Name

		switch entry.Type {
		case ftp.EntryTypeFolder:
			child, err := c.ScanStructure(ctx, childPath, maxDepth-1)
			if err != nil {
				c.logger.Warn("skipping unscannable directory",
					zap.String("path", childPath), zap.Error(err))
				continue
			}
			child.Name = entry.Name
			node.Children = append(node.Children, child)
		case ftp.EntryTypeFile:
			if !strings.HasSuffix(strings.ToLower(entry.Name), ".csv") {
				continue
			}
			node.Children = append(node.Children, &StructureNode{
				Name:   entry.Name,
				Path:   childPath,
				Type:   "file",
				Size:   entry.Size,
				Format: "csv",
			})
		}
	}
	return node, nil
}
