package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/spatialnotes"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// resolveVault picks the --vault flag, else the nearest vault above the working
// directory, else the working directory itself.
func resolveVault() string {
	if vaultDir != "" {
		return vaultDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	if root, err := spatialnotes.FindVaultRoot(cwd); err == nil {
		return root
	}
	return cwd
}

func commonOptions(extra ...spatialnotes.Option) []spatialnotes.Option {
	opts := []spatialnotes.Option{
		spatialnotes.WithLogger(slog.Default()),
		spatialnotes.WithReadOnly(readOnly),
	}
	if fileName != "" {
		opts = append(opts, spatialnotes.WithFileName(fileName))
	}
	return append(opts, extra...)
}

// openNotes loads the collection for one-shot commands.
func openNotes() *core.Service {
	svc, err := spatialnotes.New(resolveVault(), commonOptions(spatialnotes.WithMustExist(true))...)
	if err != nil {
		fatal("Failed to open vault", err)
	}
	return svc
}

// saveNotes persists svc synchronously; one-shot commands exit right after.
func saveNotes(svc *core.Service) {
	if err := svc.Save(context.Background()); err != nil {
		fatal("Failed to save notes", err)
	}
}

func resolveNote(svc *core.Service, prefix string) core.Note {
	n, err := svc.Resolve(prefix)
	if err != nil {
		fatal("Failed to find note", err)
	}
	return n
}

// parseVec reads "x,y,z".
func parseVec(s string) (spatial.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return spatial.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return spatial.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		xyz[i] = v
	}
	return spatial.V(xyz[0], xyz[1], xyz[2]), nil
}

func summary(n core.Note) string {
	content := strings.ReplaceAll(n.Content, "\n", " ")
	if len([]rune(content)) > 48 {
		content = string([]rune(content)[:47]) + "…"
	}
	where := "unplaced"
	if n.Placed() {
		where = n.Position.String()
	}
	return fmt.Sprintf("%s  %-8s %-6s %-24s %s", core.ShortID(n.ID), n.Category, n.Size, where, content)
}
