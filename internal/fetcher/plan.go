package fetcher

import (
	"fmt"
	"path/filepath"

	"aifsfetch/internal/api"
	"aifsfetch/internal/models"
)

// Step is the spacing between published forecast hours
const Step = 6

// ForecastHours enumerates 0, 6, ..., final inclusive
func ForecastHours(final int) ([]int, error) {
	if final < 0 {
		return nil, fmt.Errorf("final forecast hour must not be negative, got %d", final)
	}
	if final%Step != 0 {
		return nil, fmt.Errorf("final forecast hour must be a multiple of %d, got %d", Step, final)
	}

	hours := make([]int, 0, final/Step+1)
	for h := 0; h < final+Step; h += Step {
		hours = append(hours, h)
	}
	return hours, nil
}

// Plan lists the remote files of a run and where each one is stored under destDir
func Plan(src Source, run models.Run, final int, destDir string) ([]models.ForecastFile, error) {
	hours, err := ForecastHours(final)
	if err != nil {
		return nil, err
	}

	files := make([]models.ForecastFile, 0, len(hours))
	for _, h := range hours {
		name := api.FileName(run, h)
		files = append(files, models.ForecastFile{
			ForecastHour: h,
			URL:          src.BuildURL(run, h),
			Name:         name,
			Path:         filepath.Join(destDir, name),
		})
	}
	return files, nil
}
