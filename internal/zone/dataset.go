package zone

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// LoadFile читает набор зон из файла, нормализует его и строит индекс.
// Записи без координат пропускаются с предупреждением в логе.
func LoadFile(path string, logger *logrus.Logger) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone dataset %s: %w", path, err)
	}
	return Load(data, logger)
}

// Load нормализует набор зон из памяти и строит индекс
func Load(data []byte, logger *logrus.Logger) (*Index, error) {
	res, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize zone dataset: %w", err)
	}

	for _, s := range res.Skipped {
		logger.WithFields(logrus.Fields{
			"component": "zone",
			"position":  s.Position,
		}).WithError(s.Err).Warn("Skipping zone record without usable coordinates")
	}

	logger.WithFields(logrus.Fields{
		"component": "zone",
		"shape":     res.Shape.String(),
		"zones":     len(res.Zones),
		"skipped":   len(res.Skipped),
	}).Info("Zone dataset loaded")

	return NewIndex(res.Zones), nil
}
