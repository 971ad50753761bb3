// Package offers orquesta el ciclo de vida de las ofertas alrededor del motor
// de precios: creación, edición, borrado y expiración programada convergen en
// la misma lógica de aplicación/restauración, sin caminos divergentes.
package offers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/pricing"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// Deps dependencias del servicio de ofertas.
type Deps struct {
	Tx       TxRunner
	Offers   repository.OfferRepository // lecturas fuera de transacción
	Log      *logger.Logger
	Now      func() time.Time // nil = time.Now
	SweepPar int              // paralelismo del barrido; <=0 = 4
}

// Service controlador del ciclo de vida de ofertas. Las mutaciones sobre una
// misma oferta se serializan con un lock por id; los productos se escriben
// siempre antes que el registro de la oferta, dentro de una transacción.
type Service struct {
	tx       TxRunner
	offers   repository.OfferRepository
	log      *logger.Logger
	now      func() time.Time
	locks    *keyedMutex
	sweepPar int
}

// NewService construye el controlador.
func NewService(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	par := deps.SweepPar
	if par <= 0 {
		par = 4
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		tx:       deps.Tx,
		offers:   deps.Offers,
		log:      log,
		now:      now,
		locks:    newKeyedMutex(),
		sweepPar: par,
	}
}

// Create valida y persiste una oferta nueva. Si está vigente en este momento,
// descuenta sus productos objetivo dentro de la misma transacción; el registro
// de la oferta se escribe al final, después de los productos.
func (s *Service) Create(ctx context.Context, in dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	now := s.now()
	offer := &entity.Offer{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Discount:    in.Discount,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ProductIDs:  dedupe(in.Products),
		PriceTypes:  toPriceTypes(in.PriceTypes),
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := pricing.ValidateOffer(offer); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(offer.ID)
	defer unlock()

	err := s.tx.Run(ctx, func(offerRepo repository.OfferRepository, productRepo repository.ProductRepository) error {
		targets, err := s.loadTargets(productRepo, offer.ProductIDs)
		if err != nil {
			return err
		}
		for _, p := range targets {
			if p.HasActiveOffer {
				return fmt.Errorf("%w: el producto %s ya tiene la oferta activa %s",
					domain.ErrConflict, p.ID, p.ActiveOfferID)
			}
		}
		if offer.EffectiveAt(now) {
			updates, err := pricing.ComputeApply(offer, targets)
			if err != nil {
				return err
			}
			if err := s.persistUpdates(productRepo, offer.ID, updates); err != nil {
				return err
			}
		}
		return offerRepo.Create(offer)
	})
	if err != nil {
		return nil, err
	}
	return toOfferResponse(offer), nil
}

// Update aplica un parche a la oferta y reconcilia los precios de los
// productos afectados: removidos se restauran, agregados se descuentan (con
// chequeo de conflicto), cambios de magnitud se recalculan desde el original.
// El parche de la oferta se persiste al final, tras los productos.
func (s *Service) Update(ctx context.Context, id string, in dto.UpdateOfferRequest) (*dto.OfferResponse, error) {
	now := s.now()

	unlock := s.locks.Lock(id)
	defer unlock()

	var result *entity.Offer
	err := s.tx.Run(ctx, func(offerRepo repository.OfferRepository, productRepo repository.ProductRepository) error {
		cur, err := offerRepo.GetByID(id)
		if err != nil {
			return err
		}
		if cur == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}

		next := patchOffer(cur, in, now)
		if err := pricing.ValidateOffer(next); err != nil {
			return err
		}

		// Cargar la unión de objetivos viejos y nuevos: los removidos se
		// necesitan para restaurar, los agregados para descontar.
		union := dedupe(append(append([]string{}, cur.ProductIDs...), next.ProductIDs...))
		loaded, err := productRepo.GetManyByIDs(union)
		if err != nil {
			return fmt.Errorf("cargar productos de la oferta: %w", err)
		}
		byID := make(map[string]*entity.Product, len(loaded))
		for _, p := range loaded {
			byID[p.ID] = p
		}
		for _, pid := range next.ProductIDs {
			if _, ok := byID[pid]; !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
			}
		}

		wasEffective := cur.EffectiveAt(now)
		isEffective := next.EffectiveAt(now)

		var updates []entity.ProductPriceUpdate
		var issues []pricing.IntegrityIssue
		switch {
		case wasEffective && !isEffective:
			// Desactivación o ventana corrida fuera del presente: solo una
			// oferta vigente puede mantener descuentos.
			updates, issues = pricing.ComputeRestore(cur, loaded)
		case !wasEffective && isEffective:
			targets := make([]*entity.Product, 0, len(next.ProductIDs))
			for _, pid := range next.ProductIDs {
				targets = append(targets, byID[pid])
			}
			updates, err = pricing.ComputeApply(next, targets)
			if err != nil {
				return err
			}
		case wasEffective && isEffective:
			updates, issues, err = pricing.ComputeReconcile(cur, next, loaded)
			if err != nil {
				return err
			}
		}

		if err := s.persistUpdates(productRepo, next.ID, updates); err != nil {
			return err
		}
		s.logIssues("update", issues)

		if err := offerRepo.Update(next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOfferResponse(result), nil
}

// Delete restaura todos los productos de la oferta (idéntico a desactivar) y
// elimina el registro. Si la oferta nunca estuvo vigente, la restauración es
// un no-op porque ningún producto la referencia.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.tx.Run(ctx, func(offerRepo repository.OfferRepository, productRepo repository.ProductRepository) error {
		cur, err := offerRepo.GetByID(id)
		if err != nil {
			return err
		}
		if cur == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		loaded, err := productRepo.GetManyByIDs(cur.ProductIDs)
		if err != nil {
			return fmt.Errorf("cargar productos de la oferta: %w", err)
		}
		updates, issues := pricing.ComputeRestore(cur, loaded)
		if err := s.persistUpdates(productRepo, cur.ID, updates); err != nil {
			return err
		}
		s.logIssues("delete", issues)
		return offerRepo.Delete(id)
	})
}

// GetByID devuelve una oferta.
func (s *Service) GetByID(id string) (*dto.OfferResponse, error) {
	offer, err := s.offers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, nil
	}
	return toOfferResponse(offer), nil
}

// List lista ofertas con filtros opcionales.
func (s *Service) List(filter repository.OfferListFilter, limit, offset int) (*dto.OfferListResponse, error) {
	list, total, err := s.offers.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OfferResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOfferResponse(o))
	}
	return &dto.OfferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// ExpireSweep busca ofertas con active=true y endDate ya pasada, restaura sus
// productos y las marca inactivas. Cada oferta se procesa de forma aislada:
// una falla se loguea y no bloquea al resto del barrido. Devuelve cuántas
// ofertas expiró.
func (s *Service) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.offers.ListExpired(now)
	if err != nil {
		return 0, fmt.Errorf("listar ofertas vencidas: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	var done atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.sweepPar)
	for _, off := range expired {
		off := off
		g.Go(func() error {
			if err := s.expireOne(ctx, off.ID, now); err != nil {
				sweepFailures.Inc()
				s.log.Error().Err(err).
					Str("offer_id", off.ID).
					Msg("falló la expiración de la oferta; el barrido continúa")
				return nil
			}
			done.Add(1)
			sweepOffersExpired.Inc()
			return nil
		})
	}
	_ = g.Wait()
	return int(done.Load()), nil
}

// expireOne expira una sola oferta bajo su lock, re-leyendo su estado dentro
// de la transacción por si cambió desde el listado (editada, borrada o ya
// desactivada por otra operación concurrente).
func (s *Service) expireOne(ctx context.Context, id string, now time.Time) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.tx.Run(ctx, func(offerRepo repository.OfferRepository, productRepo repository.ProductRepository) error {
		cur, err := offerRepo.GetByID(id)
		if err != nil {
			return err
		}
		if cur == nil || !cur.Active || cur.EndDate.After(now) {
			return nil
		}
		loaded, err := productRepo.GetManyByIDs(cur.ProductIDs)
		if err != nil {
			return fmt.Errorf("cargar productos de la oferta: %w", err)
		}
		updates, issues := pricing.ComputeRestore(cur, loaded)
		if err := s.persistUpdates(productRepo, cur.ID, updates); err != nil {
			return err
		}
		s.logIssues("expire", issues)
		return offerRepo.SetActive(id, false, now)
	})
}

// persistUpdates aplica el lote calculado por el motor. Las actualizaciones
// que reclaman propiedad usan la escritura condicional primer-escritor-gana;
// las de restauración solo proceden si el producto sigue perteneciendo a la
// oferta.
func (s *Service) persistUpdates(productRepo repository.ProductRepository, offerID string, updates []entity.ProductPriceUpdate) error {
	for _, u := range updates {
		var err error
		if u.HasActiveOffer {
			err = productRepo.ApplyOfferPricing(u)
		} else {
			err = productRepo.RestoreOfferPricing(offerID, u)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// loadTargets carga los productos objetivo y exige que todos existan.
func (s *Service) loadTargets(productRepo repository.ProductRepository, ids []string) ([]*entity.Product, error) {
	loaded, err := productRepo.GetManyByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("cargar productos de la oferta: %w", err)
	}
	if len(loaded) != len(ids) {
		found := make(map[string]bool, len(loaded))
		for _, p := range loaded {
			found[p.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
		}
	}
	return loaded, nil
}

// logIssues loguea fuerte cada inconsistencia reportada por el motor: el
// producto queda con precio descontado "pegado" hasta corrección manual.
func (s *Service) logIssues(op string, issues []pricing.IntegrityIssue) {
	for _, is := range issues {
		s.log.Error().
			Str("op", op).
			Str("product_id", is.ProductID).
			Str("field", string(is.Field)).
			Str("reason", is.Reason).
			Msg("inconsistencia de precios: campo sin restaurar, requiere corrección manual")
	}
}

func patchOffer(cur *entity.Offer, in dto.UpdateOfferRequest, now time.Time) *entity.Offer {
	next := *cur
	next.ProductIDs = append([]string{}, cur.ProductIDs...)
	next.PriceTypes = append([]entity.PriceType{}, cur.PriceTypes...)

	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.Discount != nil {
		next.Discount = *in.Discount
	}
	if in.StartDate != nil {
		next.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		next.EndDate = *in.EndDate
	}
	if in.Products != nil {
		next.ProductIDs = dedupe(*in.Products)
	}
	if in.PriceTypes != nil {
		next.PriceTypes = toPriceTypes(*in.PriceTypes)
	}
	if in.Active != nil {
		next.Active = *in.Active
	}
	next.UpdatedAt = now
	return &next
}

func toOfferResponse(o *entity.Offer) *dto.OfferResponse {
	if o == nil {
		return nil
	}
	types := make([]string, 0, len(o.PriceTypes))
	for _, pt := range o.PriceTypes {
		types = append(types, string(pt))
	}
	return &dto.OfferResponse{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Discount:    o.Discount,
		StartDate:   o.StartDate,
		EndDate:     o.EndDate,
		Products:    append([]string{}, o.ProductIDs...),
		PriceTypes:  types,
		Active:      o.Active,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toPriceTypes(in []string) []entity.PriceType {
	out := make([]entity.PriceType, 0, len(in))
	seen := make(map[entity.PriceType]bool, len(in))
	for _, s := range in {
		pt := entity.PriceType(s)
		if !seen[pt] {
			seen[pt] = true
			out = append(out, pt)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
