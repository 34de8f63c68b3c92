package handler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/codemine/ruffminer/internal/domain"
	"github.com/codemine/ruffminer/internal/port"
)

// DatasetHandler serves the mined dataset: projects, commits and violation
// records straight from the dataset directory, plus index-store backed
// queries when a store is configured.
type DatasetHandler struct {
	baseDir string
	index   port.IndexStore // may be nil
}

// NewDatasetHandler creates a new dataset handler rooted at baseDir.
func NewDatasetHandler(baseDir string, index port.IndexStore) *DatasetHandler {
	return &DatasetHandler{baseDir: baseDir, index: index}
}

// Register sets up dataset routes.
func (h *DatasetHandler) Register(router fiber.Router) {
	projects := router.Group("/projects")
	projects.Get("/", h.ListProjects)
	projects.Get("/:name/commits", h.ListCommits)
	projects.Get("/:name/commits/:hash/violations", h.ListViolations)

	router.Get("/runs", h.ListRuns)
	router.Get("/violations/search", h.SearchViolations)
}

// ListProjects returns the mined project names.
func (h *DatasetHandler) ListProjects(c fiber.Ctx) error {
	entries, err := os.ReadDir(h.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(fiber.Map{"projects": []string{}, "count": 0})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	projects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, e.Name())
		}
	}
	return c.JSON(fiber.Map{"projects": projects, "count": len(projects)})
}

// ListCommits returns the commit directories mined for one project.
func (h *DatasetHandler) ListCommits(c fiber.Ctx) error {
	name := c.Params("name")
	dir, ok := h.datasetPath(name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid project name"})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	commits := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			commits = append(commits, e.Name())
		}
	}
	return c.JSON(fiber.Map{"project": name, "commits": commits, "count": len(commits)})
}

// ListViolations returns the violation records and snapshot files of one
// commit directory.
func (h *DatasetHandler) ListViolations(c fiber.Ctx) error {
	name := c.Params("name")
	hash := c.Params("hash")
	dir, ok := h.datasetPath(name, hash)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid project or commit"})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "commit not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var records []domain.ViolationRecord
	var snapshots []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "violation_") && strings.HasSuffix(e.Name(), ".json") {
			data, rerr := os.ReadFile(filepath.Join(dir, e.Name()))
			if rerr != nil {
				continue
			}
			var rec domain.ViolationRecord
			if json.Unmarshal(data, &rec) == nil {
				records = append(records, rec)
			}
			continue
		}
		snapshots = append(snapshots, e.Name())
	}

	return c.JSON(fiber.Map{
		"project":    name,
		"commit":     hash,
		"violations": records,
		"snapshots":  snapshots,
		"count":      len(records),
	})
}

// ListRuns returns recent mining runs from the index store.
func (h *DatasetHandler) ListRuns(c fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "index store not configured"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	runs, err := h.index.ListRuns(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs, "count": len(runs)})
}

// SearchViolations searches indexed records by code, message or file path.
func (h *DatasetHandler) SearchViolations(c fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "index store not configured"})
	}

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.JSON(fiber.Map{"results": []interface{}{}, "count": 0})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "200"))
	results, err := h.index.SearchViolations(c.Context(), q, c.Query("project"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

// datasetPath joins path elements under the dataset root, rejecting
// segments that would escape it.
func (h *DatasetHandler) datasetPath(elems ...string) (string, bool) {
	for _, e := range elems {
		if e == "" || e == "." || e == ".." || strings.ContainsAny(e, `/\`) {
			return "", false
		}
	}
	return filepath.Join(append([]string{h.baseDir}, elems...)...), true
}
