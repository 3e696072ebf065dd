// Package testutil provee repositorios en memoria y un TxRunner con
// rollback-por-snapshot para probar los casos de uso sin base de datos.
package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// Store estado en memoria compartido por los repos fake.
type Store struct {
	Products   map[string]*entity.Product
	Movements  map[string]*entity.StockMovement
	Revisions  map[string]*entity.MovementRevision
	Needs      map[string]*entity.NeedsRequest
	Users      map[string]*entity.User
	Categories map[string]*entity.Category
	AuditLogs  []*entity.AuditLog

	// DenyQuantityUpdate simula el veto silencioso de la base: el UPDATE
	// de cantidad no falla pero no afecta ninguna fila.
	DenyQuantityUpdate bool
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		Products:   map[string]*entity.Product{},
		Movements:  map[string]*entity.StockMovement{},
		Revisions:  map[string]*entity.MovementRevision{},
		Needs:      map[string]*entity.NeedsRequest{},
		Users:      map[string]*entity.User{},
		Categories: map[string]*entity.Category{},
	}
}

func (s *Store) snapshot() *Store {
	c := NewStore()
	c.DenyQuantityUpdate = s.DenyQuantityUpdate
	for k, v := range s.Products {
		cp := *v
		c.Products[k] = &cp
	}
	for k, v := range s.Movements {
		cp := *v
		c.Movements[k] = &cp
	}
	for k, v := range s.Revisions {
		cp := *v
		c.Revisions[k] = &cp
	}
	for k, v := range s.Needs {
		cp := *v
		c.Needs[k] = &cp
	}
	for k, v := range s.Users {
		cp := *v
		c.Users[k] = &cp
	}
	for k, v := range s.Categories {
		cp := *v
		c.Categories[k] = &cp
	}
	c.AuditLogs = append(c.AuditLogs, s.AuditLogs...)
	return c
}

func (s *Store) restore(from *Store) {
	s.Products = from.Products
	s.Movements = from.Movements
	s.Revisions = from.Revisions
	s.Needs = from.Needs
	s.Users = from.Users
	s.Categories = from.Categories
	s.AuditLogs = from.AuditLogs
}

// TxRunner implementación fake: ejecuta el callback sobre el store y, si
// falla, restaura el snapshot previo (equivalente al rollback).
type TxRunner struct {
	Store *Store
}

// Run ejecuta fn; restaura el estado anterior en caso de error.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	revisionRepo repository.RevisionRepository,
	needsRepo repository.NeedsRepository,
) error) error {
	before := r.Store.snapshot()
	err := fn(
		&MovementRepo{Store: r.Store},
		&ProductRepo{Store: r.Store},
		&RevisionRepo{Store: r.Store},
		&NeedsRepo{Store: r.Store},
	)
	if err != nil {
		r.Store.restore(before)
	}
	return err
}

// ProductRepo fake en memoria.
type ProductRepo struct{ Store *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(p *entity.Product) error {
	for _, other := range r.Store.Products {
		if other.Name == p.Name && other.Site == p.Site {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.Store.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.Store.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) GetByNameSiteForUpdate(name, site string) (*entity.Product, error) {
	for _, p := range r.Store.Products {
		if p.Name == name && p.Site == site {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ListActive(f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.Store.Products {
		if p.Archived() {
			continue
		}
		if f.Site != "" && p.Site != f.Site {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) UpdateMeta(p *entity.Product) error {
	if _, ok := r.Store.Products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.Store.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) SyncMetaByName(oldName, name, category string, minThreshold decimal.Decimal, imageURL string) error {
	for _, p := range r.Store.Products {
		if p.Name == oldName {
			p.Name = name
			p.Category = category
			p.MinThreshold = minThreshold
			p.ImageURL = imageURL
		}
	}
	return nil
}

func (r *ProductRepo) UpdateStock(id string, stock decimal.Decimal, at time.Time) error {
	p, ok := r.Store.Products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = at
	return nil
}

func (r *ProductRepo) Archive(id, archivedName string, at time.Time) error {
	p, ok := r.Store.Products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = archivedName
	p.Category = entity.ArchivedCategory
	p.Stock = decimal.Zero
	p.UpdatedAt = at
	return nil
}

// MovementRepo fake en memoria.
type MovementRepo struct{ Store *Store }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.Store.Movements[m.ID] = &cp
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.Store.Movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	r.resolveNames(&cp)
	return &cp, nil
}

// resolveNames replica el JOIN del repo real: producto y autor resueltos
// en el momento de la lectura.
func (r *MovementRepo) resolveNames(m *entity.StockMovement) {
	if p, ok := r.Store.Products[m.ProductID]; ok {
		m.ProductName = p.Name
		m.ProductCategory = p.Category
	}
	if u, ok := r.Store.Users[m.PerformedBy]; ok {
		m.PerformerName = u.FullName
	}
}

func (r *MovementRepo) SumByProductSite(productID, site string) (*repository.LedgerTotals, error) {
	t := &repository.LedgerTotals{
		TotalIn:     decimal.Zero,
		TotalOut:    decimal.Zero,
		TotalAdjust: decimal.Zero,
	}
	for _, m := range r.Store.Movements {
		if m.ProductID != productID || m.Site != site {
			continue
		}
		switch m.Type {
		case entity.MovementTypeIN:
			t.TotalIn = t.TotalIn.Add(m.Quantity)
		case entity.MovementTypeOUT:
			t.TotalOut = t.TotalOut.Add(m.Quantity)
		case entity.MovementTypeUPDATE:
			t.TotalAdjust = t.TotalAdjust.Add(m.Quantity)
		}
	}
	return t, nil
}

func (r *MovementRepo) UpdateQuantity(id string, quantity decimal.Decimal, note string) error {
	if r.Store.DenyQuantityUpdate {
		return domain.ErrAuthorizationDenied
	}
	m, ok := r.Store.Movements[id]
	if !ok {
		return domain.ErrAuthorizationDenied
	}
	m.Quantity = quantity
	m.Note = note
	return nil
}

func (r *MovementRepo) Delete(id string) error {
	delete(r.Store.Movements, id)
	return nil
}

func (r *MovementRepo) ListByRequest(requestID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Store.Movements {
		if m.RequestID == requestID {
			cp := *m
			r.resolveNames(&cp)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MovementRepo) DeleteByRequest(requestID string) error {
	for id, m := range r.Store.Movements {
		if m.RequestID == requestID {
			delete(r.Store.Movements, id)
		}
	}
	return nil
}

func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Store.Movements {
		if f.Site != "" && m.Site != f.Site {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.PerformedBy != "" && m.PerformedBy != f.PerformedBy {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// RevisionRepo fake en memoria.
type RevisionRepo struct{ Store *Store }

var _ repository.RevisionRepository = (*RevisionRepo)(nil)

func (r *RevisionRepo) Create(rev *entity.MovementRevision) error {
	cp := *rev
	r.Store.Revisions[rev.ID] = &cp
	return nil
}

func (r *RevisionRepo) ListByMovement(movementID string) ([]*entity.MovementRevision, error) {
	var out []*entity.MovementRevision
	for _, rev := range r.Store.Revisions {
		if rev.MovementID == movementID {
			cp := *rev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RevisionRepo) Reassign(oldMovementID, newMovementID string) error {
	for _, rev := range r.Store.Revisions {
		if rev.MovementID == oldMovementID {
			rev.MovementID = newMovementID
		}
	}
	return nil
}

// NeedsRepo fake en memoria.
type NeedsRepo struct{ Store *Store }

var _ repository.NeedsRepository = (*NeedsRepo)(nil)

func (r *NeedsRepo) Create(req *entity.NeedsRequest) error {
	cp := *req
	cp.Movements = nil
	r.Store.Needs[req.ID] = &cp
	return nil
}

func (r *NeedsRepo) GetByID(id string) (*entity.NeedsRequest, error) {
	req, ok := r.Store.Needs[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	movRepo := &MovementRepo{Store: r.Store}
	cp.Movements, _ = movRepo.ListByRequest(id)
	return &cp, nil
}

func (r *NeedsRepo) Delete(id string) error {
	delete(r.Store.Needs, id)
	return nil
}

func (r *NeedsRepo) List(f repository.NeedsFilter) ([]*entity.NeedsRequest, error) {
	var out []*entity.NeedsRequest
	for id, req := range r.Store.Needs {
		if f.Site != "" && req.Site != f.Site {
			continue
		}
		if f.CreatedBy != "" && req.CreatedBy != f.CreatedBy {
			continue
		}
		if f.From != nil && req.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && req.CreatedAt.After(*f.To) {
			continue
		}
		full, _ := r.GetByID(id)
		if f.ProductID != "" {
			found := false
			for _, m := range full.Movements {
				if m.ProductID == f.ProductID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// AuditRepo fake en memoria.
type AuditRepo struct{ Store *Store }

var _ repository.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Create(l *entity.AuditLog) error {
	cp := *l
	r.Store.AuditLogs = append(r.Store.AuditLogs, &cp)
	return nil
}

func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, l := range r.Store.AuditLogs {
		if f.ActionType != "" && l.ActionType != f.ActionType {
			continue
		}
		if f.EntityType != "" && l.EntityType != f.EntityType {
			continue
		}
		if f.Site != "" && l.Site != f.Site {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(strings.ToLower(l.UserName), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(l.EntityID), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(l.Reason), strings.ToLower(f.Search)) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// UserRepo fake en memoria.
type UserRepo struct{ Store *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(u *entity.User) error {
	for _, other := range r.Store.Users {
		if other.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *u
	r.Store.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.Store.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.Store.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.Store.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.Store.Users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	if _, ok := r.Store.Users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.Store.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) UpdatePassword(id, passwordHash string) error {
	u, ok := r.Store.Users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *UserRepo) Delete(id string) error {
	delete(r.Store.Users, id)
	return nil
}
