package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/pkg/log"
)

const (
	missionsDir = "missions"
	vehiclesDir = "vehicles"
)

// FileProvider loads definitions from a library directory laid out as
// <root>/missions/<id>.yaml and <root>/vehicles/<id>.yaml. Loaded
// definitions are cached; Watch invalidates cache entries when the files
// change on disk, so a long-running daemon picks up edits without a restart.
type FileProvider struct {
	root string
	log  log.Logger

	mu       sync.Mutex
	missions map[string]*model.MissionDefinition
	vehicles map[string]*model.VehicleProfile

	watcher *fsnotify.Watcher
}

// NewFileProvider returns a provider over the given library root. The root
// must exist; the missions and vehicles subdirectories may be created later.
func NewFileProvider(root string, logger log.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("mission library %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mission library %s is not a directory", root)
	}
	return &FileProvider{
		root:     root,
		log:      logger.WithName("config"),
		missions: make(map[string]*model.MissionDefinition),
		vehicles: make(map[string]*model.VehicleProfile),
	}, nil
}

// LoadMission loads and validates the mission with the given id.
func (p *FileProvider) LoadMission(id string) (*model.MissionDefinition, error) {
	p.mu.Lock()
	if m, ok := p.missions[id]; ok {
		p.mu.Unlock()
		return m, nil
	}
	p.mu.Unlock()

	path, err := p.resolve(missionsDir, id)
	if err != nil {
		return nil, err
	}

	var doc missionFile
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	mission := doc.toModel()
	if err := mission.Validate(); err != nil {
		return nil, fmt.Errorf("mission %s: %w", id, err)
	}

	p.mu.Lock()
	p.missions[id] = mission
	p.mu.Unlock()
	return mission, nil
}

// LoadVehicle loads the vehicle profile with the given id.
func (p *FileProvider) LoadVehicle(id string) (*model.VehicleProfile, error) {
	p.mu.Lock()
	if v, ok := p.vehicles[id]; ok {
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	path, err := p.resolve(vehiclesDir, id)
	if err != nil {
		return nil, err
	}

	var doc vehicleFile
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	vehicle := doc.toModel()
	if vehicle.ID == "" {
		vehicle.ID = id
	}

	p.mu.Lock()
	p.vehicles[id] = vehicle
	p.mu.Unlock()
	return vehicle, nil
}

// ListMissions enumerates the mission library, skipping files that fail to
// decode so one broken file does not hide the rest.
func (p *FileProvider) ListMissions() ([]MissionInfo, error) {
	dir := filepath.Join(p.root, missionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list missions: %w", err)
	}

	var infos []MissionInfo
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)

		var doc missionFile
		if err := decodeFile(filepath.Join(dir, entry.Name()), &doc); err != nil {
			p.log.Warn("Skipping unreadable mission file", "file", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, MissionInfo{
			ID:          id,
			Name:        doc.Name,
			Description: doc.Description,
			TargetModel: doc.TargetModel,
			Commands:    len(doc.Commands),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Watch starts a filesystem watcher over the library subdirectories and
// drops cached definitions when their files change. Call Close to stop it.
func (p *FileProvider) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch mission library: %w", err)
	}
	for _, sub := range []string{missionsDir, vehiclesDir} {
		dir := filepath.Join(p.root, sub)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	p.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					p.invalidate(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Error(err, "Mission library watcher error")
			}
		}
	}()
	return nil
}

// Close stops the watcher, if one was started.
func (p *FileProvider) Close() error {
	if p.watcher == nil {
		return nil
	}
	return p.watcher.Close()
}

func (p *FileProvider) invalidate(path string) {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return
	}
	id := strings.TrimSuffix(filepath.Base(path), ext)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch filepath.Base(filepath.Dir(path)) {
	case missionsDir:
		delete(p.missions, id)
	case vehiclesDir:
		delete(p.vehicles, id)
	default:
		return
	}
	p.log.Info("Definition changed on disk, cache dropped", "id", id)
}

// resolve maps an id to its file, accepting either yaml extension.
func (p *FileProvider) resolve(sub, id string) (string, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(p.root, sub, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &model.ConfigError{
		Field:  sub,
		Reason: fmt.Sprintf("no definition named %q under %s", id, filepath.Join(p.root, sub)),
	}
}

// decodeFile reads one YAML definition into out. Params and other loosely
// typed values are decoded weakly so bare numbers in the file arrive as the
// strings the model layer expects.
func decodeFile(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return &model.ConfigError{Field: filepath.Base(path), Reason: err.Error()}
	}
	err := v.Unmarshal(out, func(c *mapstructure.DecoderConfig) {
		c.WeaklyTypedInput = true
	})
	if err != nil {
		return &model.ConfigError{Field: filepath.Base(path), Reason: err.Error()}
	}
	return nil
}
