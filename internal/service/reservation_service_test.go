package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

func newReservationFixture() (*fakeStore, *ReservationService) {
	st := newFakeStore()
	return st, NewReservationService(st)
}

func TestGenerateReservationCode(t *testing.T) {
	st, svc := newReservationFixture()
	codeRe := regexp.MustCompile(`^RS-[A-Z0-9]{8}$`)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := svc.GenerateReservationCode(context.Background(), date)
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if !codeRe.MatchString(code) {
			t.Fatalf("code %q does not match RS-XXXXXXXX", code)
		}
		if len(code) != 11 {
			t.Fatalf("code %q has length %d, want 11", code, len(code))
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
		// Register the code so the next round must avoid it.
		st.addReservation(model.Reservation{ReservationCode: code, CustomerName: "x", NumberOfGuests: 2})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	_, svc := newReservationFixture()

	tests := []struct {
		phone string
		want  bool
	}{
		{"0987654321", true},
		{"0123456789", true},
		{"01234567890", true}, // 11-digit local numbers allowed
		{"+84987654321", true},
		{" 0987654321 ", true}, // surrounding whitespace trimmed
		{"", false},
		{"   ", false},
		{"123", false},
		{"1234567890", false},   // missing leading 0
		{"0023456789", false},   // zero network prefix
		{"012-345-6789", false}, // separators rejected
		{"012 345 6789", false},
		{"+84023456789", false}, // zero prefix after country code
		{"+85987654321", false}, // wrong country code
		{"09876543", false},     // too short
		{"098765432109", false}, // too long
		{"09876o4321", false},   // letter inside
	}
	for _, tc := range tests {
		if got := svc.ValidatePhoneNumber(tc.phone); got != tc.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestValidateAvailability(t *testing.T) {
	st, svc := newReservationFixture()
	room := st.addRoom(model.Room{Name: "Terrace", TableCount: 5, TotalCapacity: 20})
	st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T1", TableName: "One", Capacity: 4, IsActive: true})
	st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T2", TableName: "Two", Capacity: 6, IsActive: true})
	// Occupied and inactive tables do not count.
	st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T3", TableName: "Three", Capacity: 8, IsActive: true, Status: model.TableOccupied})
	st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T4", TableName: "Four", Capacity: 8, IsActive: false})

	arrival := time.Now().Add(2 * time.Hour)

	ok, err := svc.ValidateAvailability(context.Background(), arrival, 10)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !ok {
		t.Errorf("10 guests against capacity 10 = false, want true")
	}

	ok, err = svc.ValidateAvailability(context.Background(), arrival, 11)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if ok {
		t.Errorf("11 guests against capacity 10 = true, want false")
	}

	if _, err := svc.ValidateAvailability(context.Background(), arrival, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("zero guests err = %v, want ErrValidation", err)
	}
}

func TestAssignTable(t *testing.T) {
	st, svc := newReservationFixture()
	room := st.addRoom(model.Room{Name: "Main", TableCount: 5, TotalCapacity: 20})
	free := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T1", TableName: "One", Capacity: 4, IsActive: true})
	small := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T2", TableName: "Two", Capacity: 2, IsActive: true})
	busy := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T3", TableName: "Three", Capacity: 6, IsActive: true, Status: model.TableOccupied})
	res := st.addReservation(model.Reservation{CustomerName: "Lan", CustomerPhone: "0987654321", NumberOfGuests: 4})

	ctx := context.Background()

	if err := svc.AssignTable(ctx, uuid.New(), free.ID); !errors.Is(err, store.ErrReservationNotFound) {
		t.Errorf("missing reservation err = %v, want ErrReservationNotFound", err)
	}
	if err := svc.AssignTable(ctx, res.ID, uuid.New()); !errors.Is(err, store.ErrTableNotFound) {
		t.Errorf("missing table err = %v, want ErrTableNotFound", err)
	}
	if err := svc.AssignTable(ctx, res.ID, small.ID); !errors.Is(err, ErrInsufficientCapacity) {
		t.Errorf("small table err = %v, want ErrInsufficientCapacity", err)
	}
	if err := svc.AssignTable(ctx, res.ID, busy.ID); !errors.Is(err, ErrTableNotAvailable) {
		t.Errorf("occupied table err = %v, want ErrTableNotAvailable", err)
	}

	// Capacity exactly equal to the guest count is enough.
	if err := svc.AssignTable(ctx, res.ID, free.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, _ := st.GetReservation(ctx, res.ID)
	if got.TableID == nil || *got.TableID != free.ID {
		t.Errorf("reservation table = %v, want %s", got.TableID, free.ID)
	}
	if got.RoomID == nil || *got.RoomID != room.ID {
		t.Errorf("reservation room = %v, want %s", got.RoomID, room.ID)
	}
	if st.table(free.ID).Status != model.TableReserved {
		t.Errorf("table status = %q, want Reserved", st.table(free.ID).Status)
	}

	// The reserved table is no longer assignable to anyone else.
	other := st.addReservation(model.Reservation{CustomerName: "Minh", CustomerPhone: "0912345678", NumberOfGuests: 2})
	if err := svc.AssignTable(ctx, other.ID, free.ID); !errors.Is(err, ErrTableNotAvailable) {
		t.Errorf("double assign err = %v, want ErrTableNotAvailable", err)
	}
}

func TestCreateReservation(t *testing.T) {
	st, svc := newReservationFixture()
	room := st.addRoom(model.Room{Name: "Main", TableCount: 5, TotalCapacity: 20})
	table := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T1", TableName: "One", Capacity: 4, IsActive: true})
	arrival := time.Now().Add(3 * time.Hour)

	t.Run("validation", func(t *testing.T) {
		cases := []BookingRequest{
			{CustomerName: "", CustomerPhone: "0987654321", ArrivalTime: arrival, NumberOfGuests: 2},
			{CustomerName: "Lan", CustomerPhone: "123", ArrivalTime: arrival, NumberOfGuests: 2},
			{CustomerName: "Lan", CustomerPhone: "0987654321", ArrivalTime: arrival, NumberOfGuests: 0},
		}
		for i, req := range cases {
			if _, err := svc.CreateReservation(context.Background(), req); !errors.Is(err, ErrValidation) {
				t.Errorf("case %d: err = %v, want ErrValidation", i, err)
			}
		}
	})

	t.Run("without table", func(t *testing.T) {
		res, err := svc.CreateReservation(context.Background(), BookingRequest{
			CustomerName:   "  Lan  ",
			CustomerPhone:  "0987654321",
			ArrivalTime:    arrival,
			NumberOfGuests: 2,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Status != model.ReservationPending {
			t.Errorf("status = %q, want PENDING", res.Status)
		}
		if res.CustomerName != "Lan" {
			t.Errorf("name = %q, want trimmed", res.CustomerName)
		}
		if res.TableID != nil {
			t.Errorf("table = %v, want nil before allocation", res.TableID)
		}
		if !regexp.MustCompile(`^RS-[A-Z0-9]{8}$`).MatchString(res.ReservationCode) {
			t.Errorf("code %q malformed", res.ReservationCode)
		}
	})

	t.Run("with immediate table", func(t *testing.T) {
		res, err := svc.CreateReservation(context.Background(), BookingRequest{
			CustomerName:   "Minh",
			CustomerPhone:  "+84912345678",
			ArrivalTime:    arrival,
			NumberOfGuests: 4,
			TableID:        &table.ID,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.TableID == nil || *res.TableID != table.ID {
			t.Errorf("table = %v, want %s", res.TableID, table.ID)
		}
		if st.table(table.ID).Status != model.TableReserved {
			t.Errorf("table status = %q, want Reserved", st.table(table.ID).Status)
		}
	})

	t.Run("requested table too small rolls back", func(t *testing.T) {
		tiny := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T9", TableName: "Tiny", Capacity: 2, IsActive: true})
		_, err := svc.CreateReservation(context.Background(), BookingRequest{
			CustomerName:   "Huy",
			CustomerPhone:  "0909090909",
			ArrivalTime:    arrival,
			NumberOfGuests: 6,
			TableID:        &tiny.ID,
		})
		if !errors.Is(err, ErrInsufficientCapacity) {
			t.Fatalf("err = %v, want ErrInsufficientCapacity", err)
		}
		if st.table(tiny.ID).Status != model.TableAvailable {
			t.Errorf("table status = %q, want still Available", st.table(tiny.ID).Status)
		}
	})
}

func TestReservationStatusFlow(t *testing.T) {
	st, svc := newReservationFixture()
	room := st.addRoom(model.Room{Name: "Main", TableCount: 5, TotalCapacity: 20})
	table := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T1", TableName: "One", Capacity: 4, IsActive: true})
	res := st.addReservation(model.Reservation{CustomerName: "Lan", CustomerPhone: "0987654321", NumberOfGuests: 2})

	ctx := context.Background()
	if err := svc.ConfirmReservation(ctx, res.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, _ := st.GetReservation(ctx, res.ID)
	if got.Status != model.ReservationConfirmed {
		t.Errorf("status = %q, want CONFIRMED", got.Status)
	}

	if err := svc.AssignTable(ctx, res.ID, table.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := svc.SeatReservation(ctx, res.ID); err != nil {
		t.Fatalf("seat: %v", err)
	}
	got, _ = st.GetReservation(ctx, res.ID)
	if got.Status != model.ReservationSeated {
		t.Errorf("status = %q, want SEATED", got.Status)
	}
	if st.table(table.ID).Status != model.TableOccupied {
		t.Errorf("table status = %q, want Occupied once the party sits", st.table(table.ID).Status)
	}

	// Seating a cancelled booking is rejected.
	stale := st.addReservation(model.Reservation{CustomerName: "Huy", CustomerPhone: "0911111111", NumberOfGuests: 2, Status: model.ReservationCancelled})
	if err := svc.SeatReservation(ctx, stale.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("seat cancelled err = %v, want ErrValidation", err)
	}

	// Cancelling while a table is merely held releases it.
	spare := st.addTable(model.DiningTable{RoomID: room.ID, TableNumber: "T2", TableName: "Two", Capacity: 4, IsActive: true})
	other := st.addReservation(model.Reservation{CustomerName: "Minh", CustomerPhone: "0922222222", NumberOfGuests: 2})
	if err := svc.AssignTable(ctx, other.ID, spare.ID); err != nil {
		t.Fatalf("assign spare: %v", err)
	}
	if err := svc.CancelReservation(ctx, other.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ = st.GetReservation(ctx, other.ID)
	if got.Status != model.ReservationCancelled {
		t.Errorf("status = %q, want CANCELLED", got.Status)
	}
	if st.table(spare.ID).Status != model.TableAvailable {
		t.Errorf("table status = %q, want released to Available", st.table(spare.ID).Status)
	}

	// An already seated party keeps its table when the booking record
	// is later cancelled by mistake.
	if err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("cancel seated: %v", err)
	}
	if st.table(table.ID).Status != model.TableOccupied {
		t.Errorf("table status = %q, want Occupied untouched", st.table(table.ID).Status)
	}

	if err := svc.ConfirmReservation(ctx, uuid.New()); !errors.Is(err, store.ErrReservationNotFound) {
		t.Errorf("missing reservation err = %v, want ErrReservationNotFound", err)
	}
}
