package offers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// --- fakes en memoria -------------------------------------------------------

// memStore estado compartido de los fakes. El TxRunner falso serializa las
// transacciones con el mutex y hace rollback restaurando un snapshot cuando
// el callback falla, igual que una transacción real.
type memStore struct {
	mu       sync.Mutex
	offers   map[string]*entity.Offer
	products map[string]*entity.Product
	failIDs  map[string]bool // ids de producto que hacen fallar GetManyByIDs
}

func newMemStore() *memStore {
	return &memStore{
		offers:   make(map[string]*entity.Offer),
		products: make(map[string]*entity.Product),
		failIDs:  make(map[string]bool),
	}
}

func copyOffer(o *entity.Offer) *entity.Offer {
	c := *o
	c.ProductIDs = append([]string{}, o.ProductIDs...)
	c.PriceTypes = append([]entity.PriceType{}, o.PriceTypes...)
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

type fakeTxRunner struct {
	store *memStore
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.OfferRepository, repository.ProductRepository) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapO := make(map[string]*entity.Offer, len(t.store.offers))
	for id, o := range t.store.offers {
		snapO[id] = copyOffer(o)
	}
	snapP := make(map[string]*entity.Product, len(t.store.products))
	for id, p := range t.store.products {
		snapP[id] = copyProduct(p)
	}

	err := fn(&fakeOfferRepo{store: t.store}, &fakeProductRepo{store: t.store})
	if err != nil {
		t.store.offers = snapO
		t.store.products = snapP
	}
	return err
}

// fakeOfferRepo con locked=true toma el mutex (uso fuera de transacción);
// dentro de una transacción el TxRunner ya lo sostiene.
type fakeOfferRepo struct {
	store  *memStore
	locked bool
}

func (r *fakeOfferRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeOfferRepo) Create(offer *entity.Offer) error {
	defer r.lock()()
	if _, ok := r.store.offers[offer.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.offers[offer.ID] = copyOffer(offer)
	return nil
}

func (r *fakeOfferRepo) GetByID(id string) (*entity.Offer, error) {
	defer r.lock()()
	o, ok := r.store.offers[id]
	if !ok {
		return nil, nil
	}
	return copyOffer(o), nil
}

func (r *fakeOfferRepo) List(filter repository.OfferListFilter, limit, offset int) ([]*entity.Offer, int, error) {
	defer r.lock()()
	var out []*entity.Offer
	for _, o := range r.store.offers {
		if filter.Active != nil && o.Active != *filter.Active {
			continue
		}
		if filter.CurrentAt != nil && !o.EffectiveAt(*filter.CurrentAt) {
			continue
		}
		out = append(out, copyOffer(o))
	}
	return out, len(out), nil
}

func (r *fakeOfferRepo) Update(offer *entity.Offer) error {
	defer r.lock()()
	if _, ok := r.store.offers[offer.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.offers[offer.ID] = copyOffer(offer)
	return nil
}

func (r *fakeOfferRepo) SetActive(id string, active bool, updatedAt time.Time) error {
	defer r.lock()()
	o, ok := r.store.offers[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Active = active
	o.UpdatedAt = updatedAt
	return nil
}

func (r *fakeOfferRepo) ListExpired(now time.Time) ([]*entity.Offer, error) {
	defer r.lock()()
	var out []*entity.Offer
	for _, o := range r.store.offers {
		if o.Active && o.EndDate.Before(now) {
			out = append(out, copyOffer(o))
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) Delete(id string) error {
	defer r.lock()()
	delete(r.store.offers, id)
	return nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.store.products[p.ID] = copyProduct(p)
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *fakeProductRepo) GetManyByIDs(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if r.store.failIDs[id] {
			return nil, errors.New("fallo simulado de base de datos")
		}
		if p, ok := r.store.products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.products[p.ID] = copyProduct(p)
	return nil
}

func (r *fakeProductRepo) List(_, _ string, _, _ int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) ApplyOfferPricing(u entity.ProductPriceUpdate) error {
	p, ok := r.store.products[u.ProductID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, u.ProductID)
	}
	if p.HasActiveOffer && p.ActiveOfferID != u.ActiveOfferID {
		return fmt.Errorf("%w: el producto %s ya tiene la oferta activa %s",
			domain.ErrConflict, p.ID, p.ActiveOfferID)
	}
	applyUpdate(p, u)
	return nil
}

func (r *fakeProductRepo) RestoreOfferPricing(offerID string, u entity.ProductPriceUpdate) error {
	p, ok := r.store.products[u.ProductID]
	if !ok || !p.OwnedBy(offerID) {
		return nil
	}
	applyUpdate(p, u)
	return nil
}

func applyUpdate(p *entity.Product, u entity.ProductPriceUpdate) {
	if u.RetailPrice != nil {
		p.RetailPrice = *u.RetailPrice
	}
	if u.WholesalePrice != nil {
		p.WholesalePrice = *u.WholesalePrice
	}
	if u.OriginalRetailPrice != nil {
		p.OriginalRetailPrice = decimal.NewNullDecimal(*u.OriginalRetailPrice)
	}
	if u.OriginalWholesalePrice != nil {
		p.OriginalWholesalePrice = decimal.NewNullDecimal(*u.OriginalWholesalePrice)
	}
	p.HasActiveOffer = u.HasActiveOffer
	p.ActiveOfferID = u.ActiveOfferID
}

// --- helpers ----------------------------------------------------------------

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProduct(store *memStore, id, retail, wholesale string) {
	store.products[id] = &entity.Product{
		ID:             id,
		Name:           "Producto " + id,
		RetailPrice:    dec(retail),
		WholesalePrice: dec(wholesale),
		OriginalRetailPrice:    decimal.NewNullDecimal(dec(retail)),
		OriginalWholesalePrice: decimal.NewNullDecimal(dec(wholesale)),
	}
}

func newTestService(store *memStore) *Service {
	return NewService(Deps{
		Tx:     &fakeTxRunner{store: store},
		Offers: &fakeOfferRepo{store: store, locked: true},
		Log:    logger.Nop(),
		Now:    func() time.Time { return testNow },
	})
}

func currentWindow() (time.Time, time.Time) {
	return testNow.Add(-time.Hour), testNow.Add(time.Hour)
}

func createReq(discount string, products []string, priceTypes []string) dto.CreateOfferRequest {
	start, end := currentWindow()
	return dto.CreateOfferRequest{
		Title:      "Liquidación de temporada",
		Discount:   dec(discount),
		StartDate:  start,
		EndDate:    end,
		Products:   products,
		PriceTypes: priceTypes,
	}
}

func assertDec(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "esperado %s, obtenido %s", expected, actual)
}

// --- tests ------------------------------------------------------------------

func TestService_Create_AplicaDescuentoInmediato(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	require.NotNil(t, resp)

	p := store.products["p1"]
	assertDec(t, "80", p.RetailPrice)
	assertDec(t, "70", p.WholesalePrice) // no seleccionado, intacto
	require.True(t, p.OriginalRetailPrice.Valid)
	assertDec(t, "100", p.OriginalRetailPrice.Decimal)
	assert.True(t, p.HasActiveOffer)
	assert.Equal(t, resp.ID, p.ActiveOfferID)

	stored := store.offers[resp.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.Active)
}

func TestService_Create_VentanaFuturaNoTocaPrecios(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	req := createReq("20", []string{"p1"}, []string{"retailPrice"})
	req.StartDate = testNow.Add(24 * time.Hour)
	req.EndDate = testNow.Add(48 * time.Hour)

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	p := store.products["p1"]
	assertDec(t, "100", p.RetailPrice)
	assert.False(t, p.HasActiveOffer)
	assert.NotNil(t, store.offers[resp.ID])
}

func TestService_Create_ProductoInexistente(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), createReq("20", []string{"p1", "fantasma"}, []string{"retailPrice"}))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.offers)
	assertDec(t, "100", store.products["p1"].RetailPrice)
}

func TestService_Create_DescuentoFueraDeRango(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), createReq("150", []string{"p1"}, []string{"retailPrice"}))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.offers)
}

func TestService_Create_ConflictoNoPersisteNada(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	store.products["p1"].HasActiveOffer = true
	store.products["p1"].ActiveOfferID = "otra-oferta"
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, store.offers)
	assertDec(t, "100", store.products["p1"].RetailPrice)
	assert.Equal(t, "otra-oferta", store.products["p1"].ActiveOfferID)
}

// Dos creaciones concurrentes sobre el mismo producto: exactamente una gana,
// la otra recibe conflicto y no deja rastro.
func TestService_Create_ConcurrenteMismoProducto(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	results := make(chan error, 2)
	ids := make(chan string, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
			results <- err
			if err == nil {
				ids <- resp.ID
			}
		}()
	}
	wg.Wait()
	close(results)
	close(ids)

	var okCount, conflictCount int
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrConflict):
			conflictCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)

	winner := <-ids
	p := store.products["p1"]
	assertDec(t, "80", p.RetailPrice)
	assert.Equal(t, winner, p.ActiveOfferID)
	assert.Len(t, store.offers, 1)
}

func TestService_Update_RecalculaDesdeOriginal(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	assertDec(t, "80", store.products["p1"].RetailPrice)

	// 20% -> 50%: el nuevo precio sale del original guardado (100), no del
	// precio vivo ya descontado (80).
	newDiscount := dec("50")
	_, err = svc.Update(context.Background(), resp.ID, dto.UpdateOfferRequest{Discount: &newDiscount})
	require.NoError(t, err)

	p := store.products["p1"]
	assertDec(t, "50", p.RetailPrice)
	assertDec(t, "100", p.OriginalRetailPrice.Decimal)
	assert.Equal(t, resp.ID, p.ActiveOfferID)
}

func TestService_Update_DesactivarRestaura(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice", "wholesalePrice"}))
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), resp.ID, dto.UpdateOfferRequest{Active: &inactive})
	require.NoError(t, err)

	p := store.products["p1"]
	assertDec(t, "100", p.RetailPrice)
	assertDec(t, "70", p.WholesalePrice)
	assert.False(t, p.HasActiveOffer)
	assert.Empty(t, p.ActiveOfferID)
	assert.False(t, store.offers[resp.ID].Active)
}

func TestService_Update_RemueveYAgregaProductos(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	seedProduct(store, "p2", "200", "140")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("10", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	assertDec(t, "90", store.products["p1"].RetailPrice)

	products := []string{"p2"}
	_, err = svc.Update(context.Background(), resp.ID, dto.UpdateOfferRequest{Products: &products})
	require.NoError(t, err)

	p1 := store.products["p1"]
	assertDec(t, "100", p1.RetailPrice)
	assert.False(t, p1.HasActiveOffer)

	p2 := store.products["p2"]
	assertDec(t, "180", p2.RetailPrice)
	assert.Equal(t, resp.ID, p2.ActiveOfferID)
}

func TestService_Update_OfertaInexistente(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	title := "nuevo título"
	_, err := svc.Update(context.Background(), "no-existe", dto.UpdateOfferRequest{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Original ausente al desactivar: el campo queda como está (sin adivinar una
// base) pero la propiedad se limpia igual.
func TestService_Update_OriginalAusenteLimpiaPropiedad(t *testing.T) {
	store := newMemStore()
	start, end := currentWindow()
	store.offers["of1"] = &entity.Offer{
		ID: "of1", Title: "Oferta dañada", Discount: dec("20"),
		StartDate: start, EndDate: end,
		ProductIDs: []string{"p1"}, PriceTypes: []entity.PriceType{entity.PriceTypeRetail},
		Active: true,
	}
	store.products["p1"] = &entity.Product{
		ID:             "p1",
		RetailPrice:    dec("80"),
		WholesalePrice: dec("70"),
		HasActiveOffer: true,
		ActiveOfferID:  "of1",
		// OriginalRetailPrice inválido: estado inconsistente heredado
	}
	svc := newTestService(store)

	inactive := false
	_, err := svc.Update(context.Background(), "of1", dto.UpdateOfferRequest{Active: &inactive})
	require.NoError(t, err)

	p := store.products["p1"]
	assertDec(t, "80", p.RetailPrice) // intacto, requiere corrección manual
	assert.False(t, p.HasActiveOffer)
	assert.Empty(t, p.ActiveOfferID)
}

func TestService_Delete_RestauraYElimina(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("25", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	assertDec(t, "75", store.products["p1"].RetailPrice)

	require.NoError(t, svc.Delete(context.Background(), resp.ID))

	p := store.products["p1"]
	assertDec(t, "100", p.RetailPrice)
	assert.False(t, p.HasActiveOffer)
	assert.Empty(t, store.offers)
}

func TestService_Delete_OfertaInexistente(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	require.ErrorIs(t, svc.Delete(context.Background(), "no-existe"), domain.ErrNotFound)
}

func TestService_ExpireSweep_RestauraYDesactiva(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	assertDec(t, "80", store.products["p1"].RetailPrice)

	later := testNow.Add(2 * time.Hour) // pasada la ventana
	expired, err := svc.ExpireSweep(context.Background(), later)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	p := store.products["p1"]
	assertDec(t, "100", p.RetailPrice)
	assert.False(t, p.HasActiveOffer)
	assert.False(t, store.offers[resp.ID].Active)
}

// Oferta creada con ventana ya vencida: no toca precios al crearse y el
// barrido solo la desactiva.
func TestService_ExpireSweep_VencidaAlCrearse(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	req := createReq("20", []string{"p1"}, []string{"retailPrice"})
	req.StartDate = testNow.Add(-48 * time.Hour)
	req.EndDate = testNow.Add(-24 * time.Hour)
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assertDec(t, "100", store.products["p1"].RetailPrice)

	expired, err := svc.ExpireSweep(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.False(t, store.offers[resp.ID].Active)
	assertDec(t, "100", store.products["p1"].RetailPrice)
}

func TestService_ExpireSweep_FallaAisladaNoAbortaBarrido(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	seedProduct(store, "p2", "200", "140")
	svc := newTestService(store)

	r1, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)
	r2, err := svc.Create(context.Background(), createReq("20", []string{"p2"}, []string{"retailPrice"}))
	require.NoError(t, err)

	store.failIDs["p1"] = true // la expiración de la primera oferta fallará

	later := testNow.Add(2 * time.Hour)
	expired, err := svc.ExpireSweep(context.Background(), later)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// La oferta que falló sigue activa y será reintentada en el próximo barrido.
	assert.True(t, store.offers[r1.ID].Active)
	assert.False(t, store.offers[r2.ID].Active)
	assertDec(t, "200", store.products["p2"].RetailPrice)
}

func TestService_ExpireSweep_SinVencidas(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "p1", "100", "70")
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), createReq("20", []string{"p1"}, []string{"retailPrice"}))
	require.NoError(t, err)

	expired, err := svc.ExpireSweep(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, expired)
	assertDec(t, "80", store.products["p1"].RetailPrice)
}
