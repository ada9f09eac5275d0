package cmd

import (
	"fmt"
	"log"

	userDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/user"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a superadmin and security keys",
	Long: `Seed the database with the bootstrap superadmin account and a
batch of unused admin security keys. Safe to re-run; existing rows are
left alone.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		// superadmin cannot register through the API; the seeder is the
		// only way one comes into existence
		superEmail := "superadmin@bragboard.local"
		var existing userDatamodel.User
		err = db.Where("email = ?", superEmail).First(&existing).Error
		switch {
		case err == nil:
			fmt.Println("superadmin already exists:", superEmail)
		case err == gorm.ErrRecordNotFound:
			hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash superadmin password: %v", err)
			}
			super := userDatamodel.User{
				Username:     "superadmin",
				Email:        superEmail,
				Name:         "Super Admin",
				PasswordHash: string(hash),
				Role:         "superadmin",
				Department:   "Management",
				IsActive:     true,
			}
			if err := db.Create(&super).Error; err != nil {
				log.Fatalf("failed to seed superadmin: %v", err)
			}
			fmt.Println("Seeded superadmin:", superEmail, "(password: changeme)")
		default:
			log.Fatalf("failed to check superadmin: %v", err)
		}

		var unused int64
		if err := db.Model(&userDatamodel.SecurityKey{}).
			Where("is_used = false").
			Count(&unused).Error; err != nil {
			log.Fatalf("failed to count security keys: %v", err)
		}

		for i := unused; i < int64(seedKeyCount); i++ {
			key := userDatamodel.SecurityKey{Key: uuid.NewString()}
			if err := db.Create(&key).Error; err != nil {
				log.Fatalf("failed to seed security key: %v", err)
			}
			fmt.Println("Seeded security key:", key.Key)
		}

		fmt.Println("Seeding complete")
	},
}
