package kb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadRestaurantsCSV reads the restaurants table. The file must carry a
// header row; column order is free.
func LoadRestaurantsCSV(path string) ([]RestaurantRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make([]RestaurantRow, 0, len(rows))
	for _, rec := range rows {
		out = append(out, RestaurantRow{
			Name:            rec["name"],
			URL:             rec["url"],
			Address:         rec["address"],
			City:            rec["city"],
			State:           rec["state"],
			Phone:           rec["phone"],
			Email:           rec["email"],
			Hours:           rec["hours"],
			SpecialFeatures: rec["special_features"],
		})
	}
	return out, nil
}

// LoadMenuItemsCSV reads the menu_items table.
func LoadMenuItemsCSV(path string) ([]MenuItemRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make([]MenuItemRow, 0, len(rows))
	for _, rec := range rows {
		out = append(out, MenuItemRow{
			Restaurant:  rec["restaurant"],
			Name:        rec["name"],
			Price:       rec["price"],
			Description: rec["description"],
			Section:     rec["section"],
			DietaryInfo: rec["dietary_info"],
		})
	}
	return out, nil
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
