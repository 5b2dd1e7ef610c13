package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mesas/m/domain"
	"mesas/m/internal/inventory"
)

// LoadMedicines adds the sample inventory in csvPath through the manager, so
// every row is validated like any other addition. It does nothing when the
// inventory already holds medicines. Rows are name,category,stock,price,expiry_date
// after a header line.
func LoadMedicines(ctx context.Context, manager *inventory.Manager, logger *logrus.Logger, csvPath string, ownerID int64) (int, error) {
	existing, err := manager.Search(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("unable to load medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("unable to read medicine header: %w", err)
	}

	rows := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.WithField("line", line).Warnf("unable to read medicine row: %v", err)
			continue
		}
		in, err := parseRow(record)
		if err != nil {
			logger.WithField("line", line).Warnf("skipping medicine row: %v", err)
			continue
		}
		in.OwnerID = ownerID
		if _, err := manager.AddMedicine(ctx, in); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				logger.WithField("line", line).Warnf("skipping medicine %s: %v", in.Name, err)
				continue
			}
			return rows, err
		}
		rows++
	}

	logger.Infof("seeded medicine inventory with %d rows", rows)
	return rows, nil
}

func parseRow(record []string) (domain.NewMedicine, error) {
	if len(record) < 5 {
		return domain.NewMedicine{}, fmt.Errorf("expected 5 columns, got %d", len(record))
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return domain.NewMedicine{}, fmt.Errorf("stock must be an integer: %q", record[2])
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return domain.NewMedicine{}, fmt.Errorf("price must be a number: %q", record[3])
	}
	return domain.NewMedicine{
		Name:       record[0],
		Category:   record[1],
		Stock:      stock,
		Price:      price,
		ExpiryDate: record[4],
	}, nil
}
