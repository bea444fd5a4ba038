package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

const saveTimestampLayout = "2006-01-02_15-04-05"

// SaveInfo describes one timestamped save file.
type SaveInfo struct {
	Filename  string
	Name      string // optional label parsed from the filename
	Timestamp time.Time
}

// ProjectsDir returns the directory holding all saved projects.
func ProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("cannot resolve home directory"))
	}
	return filepath.Join(home, ".config", "noteroll", "projects"), nil
}

// ProjectDir returns the save directory for one project.
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, projectName), nil
}

// ListProjects returns all project folder names, sorted.
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fault.Wrap(err, fmsg.With("cannot read projects directory"))
	}
	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first.
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, fault.Wrap(err, fmsg.With("cannot read project directory"))
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		// Filenames are 2006-01-02_15-04-05.json, optionally with a
		// _label suffix before the extension.
		baseName := strings.TrimSuffix(name, ".json")
		if len(baseName) < len(saveTimestampLayout) {
			continue
		}
		ts, err := time.Parse(saveTimestampLayout, baseName[:len(saveTimestampLayout)])
		if err != nil {
			continue
		}
		saveName := ""
		if len(baseName) > len(saveTimestampLayout)+1 && baseName[len(saveTimestampLayout)] == '_' {
			saveName = baseName[len(saveTimestampLayout)+1:]
		}
		saves = append(saves, SaveInfo{Filename: name, Name: saveName, Timestamp: ts})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// Save writes the document as a new timestamped save in the named
// project folder.
func Save(p Project, projectName string) error {
	if projectName == "" {
		projectName = "untitled"
	}
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Wrap(err, fmsg.With("cannot create project directory"))
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("cannot serialize project"))
	}

	timestamp := time.Now().Format(saveTimestampLayout)
	path := filepath.Join(dir, timestamp+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.WithDesc("cannot write save file", fmt.Sprintf("Could not save to %s", path)))
	}
	return nil
}

// Load reads a specific save, or the most recent one when filename is
// empty.
func Load(projectName, filename string) (Project, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return Project{}, err
	}
	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil || len(saves) == 0 {
			return Project{}, fault.New("no saves found", fmsg.WithDesc(
				"project has no save files",
				fmt.Sprintf("No saves found in project %s", projectName)))
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return Project{}, fault.Wrap(err, fmsg.With("cannot read save file"))
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fault.Wrap(err, fmsg.WithDesc("cannot parse save file", fmt.Sprintf("Save file %s is not valid", filename)))
	}
	p.Name = projectName
	p.TempoMap = p.TempoMap.Normalize()
	if p.BPM <= 0 {
		p.BPM = 120
	}
	if p.PPQN <= 0 {
		p.PPQN = 480
	}
	p.TimeSignature = p.TimeSignature.OrDefault()
	return p, nil
}

// CreateProject creates a new empty project folder.
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Wrap(err, fmsg.With("cannot create project directory"))
	}
	return nil
}

// DeleteSave deletes a specific save file.
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(dir, filename)); err != nil {
		return fault.Wrap(err, fmsg.With("cannot delete save file"))
	}
	return nil
}

// RenameSave changes a save's label, keeping its timestamp.
func RenameSave(projectName, oldFilename, newName string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	baseName := strings.TrimSuffix(oldFilename, ".json")
	if len(baseName) < len(saveTimestampLayout) {
		return fault.New("invalid save filename")
	}
	tsStr := baseName[:len(saveTimestampLayout)]

	newFilename := tsStr + ".json"
	if newName != "" {
		newFilename = tsStr + "_" + sanitizeFilename(newName) + ".json"
	}
	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return fault.Wrap(err, fmsg.With("cannot rename save file"))
	}
	return nil
}

// sanitizeFilename replaces characters that are problematic in
// filenames.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, ":", "-")
	for _, c := range []string{"*", "?", "\"", "<", ">", "|"} {
		name = strings.ReplaceAll(name, c, "")
	}
	return name
}

// DeleteProject deletes an entire project folder.
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fault.Wrap(err, fmsg.With("cannot delete project"))
	}
	return nil
}

// RenameProject renames a project folder.
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return fault.Wrap(err, fmsg.With("cannot rename project"))
	}
	return nil
}
