package video

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpegMerger joins fragments with the concat demuxer without re-encoding.
type FFmpegMerger struct {
	bin  string
	root string
}

func NewFFmpegMerger(bin, root string) *FFmpegMerger {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegMerger{bin: bin, root: root}
}

func (m *FFmpegMerger) Merge(ctx context.Context, sessionID string, locations []string) (string, error) {
	if len(locations) == 0 {
		return "", fmt.Errorf("no fragments to merge")
	}
	id := filepath.Base(sessionID)
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("create recordings dir: %w", err)
	}
	listPath := filepath.Join(m.root, id+"_concat_list.txt")
	if err := os.WriteFile(listPath, []byte(concatList(locations)), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	defer func() { _ = os.Remove(listPath) }()

	out := filepath.Join(m.root, id+"_final"+fragmentExt)
	cmd := exec.CommandContext(ctx, m.bin, m.args(listPath, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg concat: %w: %s", err, strings.TrimSpace(lastLine(stderr.String())))
	}
	slog.Debug("ffmpeg merged fragments", "session_id", sessionID, "fragments", len(locations), "output", out)
	return out, nil
}

func (m *FFmpegMerger) args(listPath, out string) []string {
	return []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", out}
}

// concatList renders the demuxer input file. Paths are made absolute because
// ffmpeg resolves relative entries against the list file's directory.
func concatList(locations []string) string {
	var b strings.Builder
	for _, loc := range locations {
		if abs, err := filepath.Abs(loc); err == nil {
			loc = abs
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(loc, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
