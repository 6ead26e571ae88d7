package controllers

import (
	"errors"
	"testing"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/models"
)

func TestLinesTotal(t *testing.T) {
	price := func(m models.Money) *models.Money { return &m }

	tests := []struct {
		name    string
		lines   []orderLineInput
		want    models.Money
		wantErr error
	}{
		{"sum", []orderLineInput{{1, 2, price(models.Soum(10000))}, {2, 1, price(models.Soum(5000))}}, models.Soum(25000), nil},
		{"line out of range", []orderLineInput{{1, 1000, price(models.MaxMoney)}}, 0, models.ErrMoneyRange},
		{"sum out of range", []orderLineInput{{1, 1, price(models.MaxMoney)}, {2, 1, price(1)}}, 0, models.ErrMoneyRange},
	}
	for _, tt := range tests {
		got, err := orderInput{Items: tt.lines}.linesTotal()
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("%s: linesTotal = %d, %v, want %d, %v", tt.name, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestBeginTxReportsClosedDatabase(t *testing.T) {
	db, err := initializers.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}

	tx, err := beginTx(db)
	if err != nil {
		t.Fatalf("beginTx on open db: %v", err)
	}
	tx.Rollback()

	sqlDB.Close()
	if _, err := beginTx(db); err == nil {
		t.Error("beginTx on a closed db should fail")
	}
}
