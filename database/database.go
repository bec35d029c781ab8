package database

import (
	"github.com/atmos-collective/atmos-site-backend/errs"
	"gorm.io/gorm"
)

type Database struct {
	db            *gorm.DB
	userRepo      *UserRepo
	gigRepo       *GigRepo
	gigTagRepo    *GigTagRepo
	crewRepo      *CrewRepo
	merchRepo     *MerchRepo
	contentRepo   *ContentRepo
	fileRepo      *FileUploadRepo
	fileTagRepo   *FileTagRepo
	contactRepo   *ContactRepo
	placementRepo *PlacementRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		userRepo:      NewUserRepo(db),
		gigRepo:       NewGigRepo(db),
		gigTagRepo:    NewGigTagRepo(db),
		crewRepo:      NewCrewRepo(db),
		merchRepo:     NewMerchRepo(db),
		contentRepo:   NewContentRepo(db),
		fileRepo:      NewFileUploadRepo(db),
		fileTagRepo:   NewFileTagRepo(db),
		contactRepo:   NewContactRepo(db),
		placementRepo: NewPlacementRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) GigRepo() *GigRepo {
	return d.gigRepo
}

func (d Database) GigTagRepo() *GigTagRepo {
	return d.gigTagRepo
}

func (d Database) CrewRepo() *CrewRepo {
	return d.crewRepo
}

func (d Database) MerchRepo() *MerchRepo {
	return d.merchRepo
}

func (d Database) ContentRepo() *ContentRepo {
	return d.contentRepo
}

func (d Database) FileUploadRepo() *FileUploadRepo {
	return d.fileRepo
}

func (d Database) FileTagRepo() *FileTagRepo {
	return d.fileTagRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) PlacementRepo() *PlacementRepo {
	return d.placementRepo
}

// Ping checks the connection is usable
func (d Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errs.NewDatabaseError("open", "connection", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}
