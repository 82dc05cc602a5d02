package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/soypat/penfix"
	"github.com/soypat/penfix/config"
	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/manifest"
	"github.com/soypat/penfix/meshio"
	"github.com/soypat/penfix/scene"
	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix <mesh files...>",
	Short: "Normalize STL/OBJ files, each file is one selected pen",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		s, err := sceneFromFiles(args, cfg.WeldTolerance)
		if err != nil {
			return err
		}
		return runBatch(cmd.OutOrStdout(), cfg, logger, s)
	},
}

var sceneCmd = &cobra.Command{
	Use:   "scene <manifest.yaml>",
	Short: "Normalize the selected mesh objects of a YAML scene manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		if cfg.WeldTolerance > 0 && m.WeldTolerance == 0 {
			m.WeldTolerance = cfg.WeldTolerance
		}
		s, err := manifest.Build(m, filepath.Dir(args[0]))
		if err != nil {
			return err
		}
		return runBatch(cmd.OutOrStdout(), cfg, logger, s)
	},
}

// sceneFromFiles loads every file as a selected mesh object named
// after the file. Repeated names get a numeric suffix.
func sceneFromFiles(paths []string, weldTol float64) (*scene.Scene, error) {
	s := scene.New()
	used := make(map[string]bool)
	for _, path := range paths {
		mesh, err := meshio.LoadMesh(path, weldTol)
		if err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name := base
		for n := 2; used[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[name] = true
		obj := scene.NewMeshObject(name, mesh)
		s.Add(obj)
		if err := s.Select(obj); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// runBatch normalizes the selection of s and writes every fixed object.
func runBatch(w io.Writer, cfg config.Config, logger *log.Logger, s *scene.Scene) error {
	report, runErr := cfg.Batch(logger).Run(s)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	var writeErrs []error
	for _, res := range report.Results {
		if res.Status != penfix.StatusDone {
			continue
		}
		path := filepath.Join(cfg.OutputDir, res.Object.Name+".stl")
		if err := writeObject(path, res.Object, cfg); err != nil {
			writeErrs = append(writeErrs, err)
			continue
		}
		logger.Info("wrote", "object", res.Object.Name, "path", path, "factor", res.Factor)
	}
	if runErr != nil || len(writeErrs) > 0 {
		fmt.Fprintf(w, "%d fixed, %d skipped, %d failed\n",
			report.Count(penfix.StatusDone), report.Count(penfix.StatusSkipped), report.Count(penfix.StatusFailed))
		return errors.Join(append([]error{runErr}, writeErrs...)...)
	}
	fmt.Fprintln(w, penfix.Confirmation)
	return nil
}

func writeObject(path string, obj *scene.Object, cfg config.Config) error {
	t := d3.Identity()
	if cfg.Frame == config.FrameWorld {
		t = obj.Transform()
	}
	return meshio.SaveSTL(path, meshio.Triangles(obj.Mesh, t), cfg.ASCII)
}
