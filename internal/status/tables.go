package status

// Thai labels as the ERP stores them. The first label of each token is its display label.
var thaiLabels = map[Domain][]labelSet{
	DomainVehicle: {
		{VehicleAvailable, []string{"ว่าง", "พร้อมใช้งาน", "พร้อมให้เช่า", "รถว่าง"}},
		{VehicleReserved, []string{"ถูกจอง", "จองแล้ว", "ติดจอง"}},
		{VehicleInUse, []string{"ถูกยืมอยู่", "ถูกเช่าอยู่", "กำลังใช้งาน", "ใช้งานอยู่", "ไม่ว่าง"}},
		{VehicleMaintenance, []string{"ซ่อมบำรุง", "อยู่ระหว่างซ่อม", "ซ่อม", "บำรุงรักษา", "เข้าศูนย์"}},
	},
	DomainBooking: {
		{BookingConfirmed, []string{"ยืนยันแล้ว", "ยืนยัน", "จองแล้ว"}},
		{BookingWaitingPickup, []string{"รอรับรถ", "รอรับ"}},
		{BookingPickupOverdue, []string{"เลยกำหนดรับรถ", "เกินกำหนดรับรถ"}},
		{BookingInUse, []string{"กำลังเช่า", "กำลังใช้งาน", "ถูกยืมอยู่", "รับรถแล้ว"}},
		{BookingReturnOverdue, []string{"เลยกำหนดคืนรถ", "เกินกำหนดคืนรถ", "คืนรถล่าช้า"}},
		{BookingCompleted, []string{"เสร็จสิ้น", "คืนรถแล้ว", "สำเร็จ"}},
		{BookingCancelled, []string{"ยกเลิก", "ยกเลิกแล้ว"}},
	},
	DomainPayment: {
		{PaymentUnpaid, []string{"ยังไม่ชำระ", "ค้างชำระ", "รอชำระ", "ยังไม่จ่าย"}},
		{PaymentPartialPaid, []string{"ชำระบางส่วน", "มัดจำแล้ว", "จ่ายมัดจำ", "ชำระมัดจำ"}},
		{PaymentPaid, []string{"ชำระแล้ว", "จ่ายแล้ว", "ชำระครบ"}},
	},
}

// English labels, synonyms and misspellings seen in ERP exports.
// The first entry of each token is its English display label.
var synonyms = map[Domain][]labelSet{
	DomainVehicle: {
		{VehicleAvailable, []string{"Available", "free", "ready", "idle", "vacant"}},
		{VehicleReserved, []string{"Reserved", "booked", "on hold", "hold"}},
		{VehicleInUse, []string{"In use", "in rent", "rented", "on rent", "borrowed", "occupied", "unavailable"}},
		{VehicleMaintenance, []string{"Maintenance", "maintainance", "maintenence", "repair", "in repair", "servicing", "out of service"}},
	},
	DomainBooking: {
		{BookingConfirmed, []string{"Confirmed", "confirm", "booked", "reserved", "approved", "new", "pending"}},
		{BookingWaitingPickup, []string{"Waiting for pickup", "waiting pickup", "awaiting pickup", "ready for pickup", "pickup pending"}},
		{BookingPickupOverdue, []string{"Pickup overdue", "overdue pickup", "late pickup"}},
		{BookingInUse, []string{"In use", "in rent", "rented", "on rent", "active", "ongoing", "picked up", "in progress"}},
		{BookingReturnOverdue, []string{"Return overdue", "overdue return", "overdue", "late return", "late"}},
		{BookingCompleted, []string{"Completed", "complete", "done", "returned", "finished", "closed"}},
		{BookingCancelled, []string{"Cancelled", "canceled", "cancel", "void", "rejected"}},
	},
	DomainPayment: {
		{PaymentUnpaid, []string{"Unpaid", "not paid", "awaiting payment", "due", "outstanding", "pending"}},
		{PaymentPartialPaid, []string{"Partially paid", "partial paid", "partial", "deposit", "deposit paid", "part paid"}},
		{PaymentPaid, []string{"Paid", "fully paid", "full paid", "settled", "complete", "completed"}},
	},
}

type labelSet struct {
	token  Token
	labels []string
}

// table maps normalized (and space-free) text to a token.
type table map[string]Token

var (
	thaiTables    = buildTables(thaiLabels, false)
	synonymTables = buildTables(synonyms, true)
)

func buildTables(src map[Domain][]labelSet, withTokens bool) map[Domain]table {
	out := make(map[Domain]table, len(src))
	for d, sets := range src {
		t := table{}
		for _, set := range sets {
			if withTokens {
				t.add(string(set.token), set.token)
			}
			for _, l := range set.labels {
				t.add(l, set.token)
			}
		}
		out[d] = t
	}
	return out
}

func (t table) add(label string, tok Token) {
	n := Normalize(label)
	if _, ok := t[n]; !ok {
		t[n] = tok
	}
	c := compact(n)
	if _, ok := t[c]; !ok {
		t[c] = tok
	}
}
