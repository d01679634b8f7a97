package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"printshop/m/internal/inventory"
)

// LoadInventory ingests a CSV of name,quantity,measurement_unit,provider rows.
// It only runs against an empty inventory so repeated boots do not duplicate
// stock.
func LoadInventory(ctx context.Context, svc *inventory.Service, csvPath string, logger *zap.Logger) (int, error) {
	existing, err := svc.List(ctx, inventory.ListQuery{Page: inventory.PageOpts{Limit: 1}})
	if err != nil {
		return 0, err
	}
	if existing.Pagination.Total > 0 {
		logger.Info("inventory already populated, skipping seed", zap.Int("items", existing.Pagination.Total))
		return 0, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("unable to open inventory seed %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("unable to read inventory header: %w", err)
	}

	rows := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read inventory row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(record) < 3 {
			continue
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			logger.Warn("skipping inventory row with bad quantity", zap.Int("line", line), zap.String("quantity", record[1]))
			continue
		}
		req := inventory.CreateRequest{
			Name:            strings.TrimSpace(record[0]),
			Quantity:        &qty,
			MeasurementUnit: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 {
			provider := strings.TrimSpace(record[3])
			req.Provider = &provider
		}
		if _, err := svc.Create(ctx, req, nil); err != nil {
			logger.Warn("unable to insert inventory item", zap.String("name", req.Name), zap.Error(err))
			continue
		}
		rows++
	}

	logger.Info("seeded inventory", zap.Int("rows", rows))
	return rows, nil
}
