package khanza

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Failure kinds for an unsuccessful external registration. All of them are
// non-fatal to the portal registration; callers only see Unavailable.
var (
	ErrConnection       = errors.New("khanza unreachable")
	ErrRemoteValidation = errors.New("khanza rejected registration")
	ErrTimeout          = errors.New("khanza registration timed out")
)

// SyncMethod names the integration used to reach Khanza.
type SyncMethod string

const (
	SyncMethodDatabase SyncMethod = "database"
	SyncMethodBridging SyncMethod = "bridging"
	SyncMethodNone     SyncMethod = "none"
)

// PatientIdentity is what Khanza needs to find or create a pasien row.
type PatientIdentity struct {
	NIK                 string
	Name                string
	Gender              string
	BirthDate           time.Time
	Address             string
	Phone               string
	MedicalRecordNumber string
}

// VisitContext describes the visit being registered.
type VisitContext struct {
	ClinicSlug string
	ClinicCode string
	DoctorCode string
	VisitDate  time.Time
}

// Result is the outcome of an external registration: Registered or Unavailable.
type Result interface {
	isResult()
}

// Registered means Khanza accepted the visit and issued its own numbers.
type Registered struct {
	QueueNumber         string
	MedicalRecordNumber string
	RegistrationNumber  string
}

// Unavailable means Khanza could not take the registration. Reason wraps one
// of ErrConnection, ErrRemoteValidation or ErrTimeout.
type Unavailable struct {
	Reason error
}

func (Registered) isResult()  {}
func (Unavailable) isResult() {}

// Registrar registers a visit in Khanza on a best-effort basis.
type Registrar interface {
	Method() SyncMethod
	Register(ctx context.Context, patient PatientIdentity, visit VisitContext) Result
}

// NoopRegistrar is used when no Khanza integration is configured.
type NoopRegistrar struct{}

func (NoopRegistrar) Method() SyncMethod { return SyncMethodNone }

func (NoopRegistrar) Register(context.Context, PatientIdentity, VisitContext) Result {
	return Unavailable{Reason: ErrConnection}
}

// classifyError folds transport errors into the failure kinds above.
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteValidation) || errors.Is(err, ErrConnection) || errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(ErrTimeout, err)
	}
	return errors.Join(ErrConnection, err)
}

// gender codes used by the pasien table
func khanzaGender(gender string) string {
	switch gender {
	case "Laki-laki", "L", "M":
		return "L"
	case "Perempuan", "P", "F":
		return "P"
	default:
		return gender
	}
}

// FormatQueueNumber renders a ticket code as PREFIX-NNN. Numeric sequences are
// zero-padded to three digits and widen naturally past 999.
func FormatQueueNumber(prefix string, seq string) string {
	seq = strings.TrimSpace(seq)
	if n, err := strconv.Atoi(seq); err == nil && n >= 0 {
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
	return prefix + "-" + seq
}
