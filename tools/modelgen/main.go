package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

var tables = []string{
	"citizens",
	"resources",
	"resource_balances",
	"tools",
	"tool_ownerships",
	"actions",
	"action_resource_rules",
	"fabrication_products",
	"fabrication_ingredients",
	"history_entries",
	"operation_records",
}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("SOLOVILLE_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or SOLOVILLE_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           out,
		ModelPkgPath:      "model",
		FieldNullable:     true,
		FieldWithIndexTag: true,
		Mode:              gen.WithoutContext | gen.WithDefaultQuery,
	})
	g.UseDB(db)
	models := make([]any, 0, len(tables))
	for _, table := range tables {
		models = append(models, g.GenerateModel(table))
	}
	g.ApplyBasic(models...)
	g.Execute()

	fmt.Printf("generated %d gorm models at %s\n", len(tables), out)
}
