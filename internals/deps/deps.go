// file: internals/deps/deps.go
package deps

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/configs"
	branchService "pdpi_backend/internals/features/branches/service"
	duesService "pdpi_backend/internals/features/dues/service"
	importService "pdpi_backend/internals/features/members/imports/service"
	"pdpi_backend/internals/features/members/members/repository"
	memberService "pdpi_backend/internals/features/members/members/service"
	province "pdpi_backend/internals/features/members/province/service"
	authService "pdpi_backend/internals/features/users/auth/service"
	"pdpi_backend/internals/helpers/cache"
	helperOSS "pdpi_backend/internals/helpers/oss"
	"pdpi_backend/internals/helpers/searchindex"
)

// Deps: dependensi bersama yang dibagikan ke semua route/controller.
type Deps struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Cache     cache.Cache
	Index     searchindex.MemberIndex
	Blob      *helperOSS.BlobService
	Resolver  *province.Resolver
	Centroids []province.Centroid
	Auth      *authService.AuthService
	Dues      *duesService.DuesService
}

// FromEnv merakit integrasi opsional; yang env-nya kosong jadi no-op / in-memory.
func FromEnv(ctx context.Context, db *gorm.DB, log *zap.Logger) *Deps {
	centroids, err := province.CentroidsFromEnv(ctx, log)
	if err != nil {
		log.Warn("centroid provinsi gagal dimuat", zap.Error(err))
	}
	return &Deps{
		DB:        db,
		Log:       log,
		Cache:     cache.NewFromEnv(ctx, log),
		Index:     searchindex.NewFromEnv(ctx, log),
		Blob:      helperOSS.NewBlobService(helperOSS.NewStorageFromEnv(log)),
		Resolver:  province.NewResolverFromEnv(log),
		Centroids: centroids,
		Auth:      NewAuthServiceFromEnv(db, log),
		Dues:      duesService.NewDuesService(db, duesService.PolicyFromEnv(), duesService.NewGatewayFromEnv(), log),
	}
}

func (d *Deps) MemberService() *memberService.MemberService {
	return &memberService.MemberService{
		Repo:     repository.NewMemberRepository(d.DB),
		Branches: branchService.NewBranchService(d.DB),
		Resolver: d.Resolver,
		Index:    d.Index,
		Cache:    d.Cache,
		Blob:     d.Blob,
		Log:      d.Log,
	}
}

// NewAuthServiceFromEnv: JWT_SECRET + JWT_TTL (default 24 jam).
func NewAuthServiceFromEnv(db *gorm.DB, log *zap.Logger) *authService.AuthService {
	tokens := authService.NewTokenService(configs.GetEnv("JWT_SECRET"), configs.GetEnvDuration("JWT_TTL", 24*time.Hour))
	return authService.NewAuthService(db, tokens, log)
}

// Importer: pipeline import dengan tulis anggota ikut di-mirror ke index pencarian.
func (d *Deps) Importer() *importService.Importer {
	members := &importService.IndexingMemberStore{
		MemberStore: importService.NewGormMemberStore(d.DB),
		Index:       d.Index,
		Log:         d.Log,
	}
	return importService.NewImporter(members, importService.NewGormBranchStore(d.DB), d.Resolver, d.Log)
}
