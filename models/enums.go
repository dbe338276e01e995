package models

import (
	"errors"
	"fmt"
)

// Stage is the IFRS 9 impairment stage of an account.
type Stage int

const (
	Stage1 Stage = 1 // performing
	Stage2 Stage = 2 // significant increase in credit risk
	Stage3 Stage = 3 // credit-impaired
)

func (s Stage) Valid() bool {
	return s >= Stage1 && s <= Stage3
}

func (s Stage) String() string {
	return fmt.Sprintf("Stage %d", int(s))
}

type LoanType string

const (
	LoanTypeInstallment LoanType = "Installment"
	LoanTypeRevolving   LoanType = "Revolving"
)

func ParseLoanType(s string) (LoanType, error) {
	switch s {
	case "Installment":
		return LoanTypeInstallment, nil
	case "Revolving":
		return LoanTypeRevolving, nil
	default:
		return "", errors.New("invalid loan type: " + s)
	}
}

type CollateralType string

const (
	CollateralTypeRealEstate CollateralType = "RealEstate"
	CollateralTypeVehicle    CollateralType = "Vehicle"
	CollateralTypeSecurities CollateralType = "Securities"
	CollateralTypeNone       CollateralType = "None"
	CollateralTypeOther      CollateralType = "Other"
)

// StageChangeReason is free text on purpose, but the engine only ever
// writes these two values (or leaves it empty when the stage is unchanged).
type StageChangeReason string

const (
	StageChangeReasonInitial StageChangeReason = "Initial Classification"
	StageChangeReasonUpdate  StageChangeReason = "Classification Update"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "Running"
	RunStatusCompleted RunStatus = "Completed"
	RunStatusFailed    RunStatus = "Failed"
)

// MovementBucket names the exclusive attribution buckets of the
// period-over-period ECL bridge.
type MovementBucket string

const (
	MovementBucketNewBusiness      MovementBucket = "NewBusiness"
	MovementBucketDerecognition    MovementBucket = "Derecognition"
	MovementBucketWriteOff         MovementBucket = "WriteOff"
	MovementBucketTransferToStage1 MovementBucket = "TransferToStage1"
	MovementBucketTransferToStage2 MovementBucket = "TransferToStage2"
	MovementBucketTransferToStage3 MovementBucket = "TransferToStage3"
	MovementBucketParameterChange  MovementBucket = "ParameterChange"
	MovementBucketScenarioChange   MovementBucket = "ScenarioChange"
	MovementBucketOther            MovementBucket = "Other"
)
