package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// memStore is an in-memory Store. InTx does not roll back; callers in these
// tests only write once validation has passed, like the real services do.
type memStore struct {
	mu     sync.Mutex
	nextID uint

	roomTypes map[uint]models.RoomType
	rooms     map[uint]models.Room
	customers map[uint]models.Customer
	bookings  map[uint]models.Booking
	services  map[uint]models.HotelService
	requests  map[uint]models.ServiceRequest
	invoices  map[uint]models.Invoice
	lines     map[uint][]models.InvoiceItem

	txCount int
}

func newMemStore() *memStore {
	return &memStore{
		roomTypes: map[uint]models.RoomType{},
		rooms:     map[uint]models.Room{},
		customers: map[uint]models.Customer{},
		bookings:  map[uint]models.Booking{},
		services:  map[uint]models.HotelService{},
		requests:  map[uint]models.ServiceRequest{},
		invoices:  map[uint]models.Invoice{},
		lines:     map[uint][]models.InvoiceItem{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

// fixtures

func (m *memStore) addRoomType(name, price string, maxOccupancy, rooms int) models.RoomType {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt := models.RoomType{ID: m.id(), Name: name, MaxOccupancy: maxOccupancy}
	if price != "" {
		rt.BasePrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	m.roomTypes[rt.ID] = rt
	for i := 0; i < rooms; i++ {
		r := models.Room{RoomNumber: fmt.Sprintf("%s-%d", name, i+1), RoomTypeID: rt.ID, Status: models.RoomStatusAvailable}
		r.ID = m.id()
		m.rooms[r.ID] = r
	}
	return rt
}

func (m *memStore) roomsOf(roomTypeID uint) []models.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Room
	for _, r := range m.rooms {
		if r.RoomTypeID == roomTypeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) addCustomer(name, email, phone string) models.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Customer{FullName: name, Email: email, Phone: phone}
	c.ID = m.id()
	m.customers[c.ID] = c
	return c
}

func (m *memStore) addService(name, price string, active bool) models.HotelService {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc := models.HotelService{ID: m.id(), Name: name, Price: decimal.RequireFromString(price), IsActive: active}
	m.services[svc.ID] = svc
	return svc
}

func (m *memStore) putBooking(b models.Booking) models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.id()
	}
	for i := range b.Items {
		if b.Items[i].ID == 0 {
			b.Items[i].ID = m.id()
		}
		b.Items[i].BookingID = b.ID
	}
	m.bookings[b.ID] = b
	return b
}

func (m *memStore) invoicesOf(bookingID uint) []models.Invoice {
	out, _ := m.ListInvoicesForBooking(context.Background(), bookingID)
	return out
}

// Store

func (m *memStore) InTx(_ context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()
	return fn(m)
}

func (m *memStore) CountRoomsByType(_ context.Context, roomTypeID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rooms {
		if r.RoomTypeID == roomTypeID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) countOverlapping(roomTypeID uint, from, to time.Time, exclude uint) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if b.ID == exclude || b.Status == models.BookingStatusCancelled {
			continue
		}
		if !Overlaps(b.CheckInDate, b.CheckOutDate, from, to) {
			continue
		}
		for _, it := range b.Items {
			if it.RoomTypeID == roomTypeID {
				n++
			}
		}
	}
	return n
}

func (m *memStore) CountOverlappingBookings(_ context.Context, roomTypeID uint, from, to time.Time) (int64, error) {
	return m.countOverlapping(roomTypeID, from, to, 0), nil
}

func (m *memStore) CountOverlappingBookingsExcluding(_ context.Context, roomTypeID uint, from, to time.Time, excludeBookingID uint) (int64, error) {
	return m.countOverlapping(roomTypeID, from, to, excludeBookingID), nil
}

func (m *memStore) FindRoomTypeByID(_ context.Context, id uint) (*models.RoomType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.roomTypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, id)
	}
	return &rt, nil
}

func (m *memStore) LockRoomType(ctx context.Context, id uint) error {
	_, err := m.FindRoomTypeByID(ctx, id)
	return err
}

func (m *memStore) FindRoomByID(_ context.Context, id uint) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
	}
	return &r, nil
}

func (m *memStore) UpdateRoomStatus(_ context.Context, id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
	}
	r.Status = status
	m.rooms[id] = r
	return nil
}

func (m *memStore) FindCustomerByID(_ context.Context, id uint) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	}
	return &c, nil
}

func (m *memStore) FindBookingByID(_ context.Context, id uint) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	b.Customer = m.customers[b.CustomerID]
	items := make([]models.BookingItem, len(b.Items))
	for i, it := range b.Items {
		it.RoomType = m.roomTypes[it.RoomTypeID]
		items[i] = it
	}
	b.Items = items
	return &b, nil
}

func (m *memStore) LockBooking(ctx context.Context, id uint) error {
	_, err := m.FindBookingByID(ctx, id)
	return err
}

func (m *memStore) SaveBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.id()
	}
	items := make([]models.BookingItem, len(b.Items))
	for i := range b.Items {
		if b.Items[i].ID == 0 {
			b.Items[i].ID = m.id()
		}
		b.Items[i].BookingID = b.ID
		items[i] = b.Items[i]
	}
	stored := *b
	stored.Items = items
	m.bookings[b.ID] = stored
	return nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *memStore) DeleteBooking(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	delete(m.bookings, id)
	return nil
}

func (m *memStore) FindHotelServiceByID(_ context.Context, id uint) (*models.HotelService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrServiceNotFound, id)
	}
	return &svc, nil
}

func (m *memStore) FindServiceRequestByID(_ context.Context, id uint) (*models.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("service request %w: id %d", ErrNotFound, id)
	}
	r.Service = m.services[r.ServiceID]
	return &r, nil
}

func (m *memStore) SaveServiceRequest(_ context.Context, r *models.ServiceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.id()
	}
	stored := *r
	stored.Service = models.HotelService{}
	m.requests[r.ID] = stored
	return nil
}

func (m *memStore) ExistsServiceRequestForBooking(_ context.Context, bookingID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListServiceRequestsForBooking(_ context.Context, bookingID uint) ([]models.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ServiceRequest
	for _, r := range m.requests {
		if r.BookingID == bookingID {
			r.Service = m.services[r.ServiceID]
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) withLines(inv models.Invoice) models.Invoice {
	inv.Items = append([]models.InvoiceItem(nil), m.lines[inv.ID]...)
	return inv
}

func (m *memStore) FindOpenInvoiceForBooking(_ context.Context, bookingID uint) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.Invoice
	for _, inv := range m.invoices {
		if inv.BookingID != bookingID || !inv.Open() {
			continue
		}
		if found == nil || inv.ID > found.ID {
			inv := inv
			found = &inv
		}
	}
	return found, nil
}

func (m *memStore) FindInvoiceByID(_ context.Context, id uint) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrInvoiceNotFound, id)
	}
	inv = m.withLines(inv)
	return &inv, nil
}

func (m *memStore) ListInvoicesForBooking(_ context.Context, bookingID uint) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Invoice
	for _, inv := range m.invoices {
		if inv.BookingID == bookingID {
			out = append(out, m.withLines(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) SaveInvoice(_ context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = m.id()
	}
	stored := *inv
	stored.Items = nil
	m.invoices[inv.ID] = stored
	return nil
}

func (m *memStore) SaveInvoiceItem(_ context.Context, item *models.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		item.ID = m.id()
	}
	m.lines[item.InvoiceID] = append(m.lines[item.InvoiceID], *item)
	return nil
}

func (m *memStore) ListInvoiceItems(_ context.Context, invoiceID uint) ([]models.InvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.InvoiceItem(nil), m.lines[invoiceID]...), nil
}

// recordingNotifier captures post-commit events.
type recordingNotifier struct {
	mu       sync.Mutex
	created  []uint
	payments []uint
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.ID)
}

func (n *recordingNotifier) PaymentConfirmed(_ context.Context, inv *models.Invoice, _ *models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, inv.ID)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
