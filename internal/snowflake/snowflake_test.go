package snowflake

import "testing"

func TestSetupSnowflake(t *testing.T) {
	err := Setup(maxWorkerValue + 1)
	if err == nil {
		t.Error("expected error for out of range worker ID")
	}

	err = Setup(3)
	if err != nil {
		t.Error(err)
	}

	err = Setup(4)
	if err == nil {
		t.Error("expected error when setting worker ID twice")
	}
}

func TestGenerateSnowflakeUnique(t *testing.T) {
	seen := make(map[int64]bool)

	for i := 0; i < 2000; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate snowflake %d", id)
		}
		seen[id] = true
	}
}

func TestExtractRoundTrip(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatal(err)
	}

	snowflake := Extract(id)
	if snowflake.WorkerID != workerID {
		t.Errorf("got worker ID %d, want %d", snowflake.WorkerID, workerID)
	}
	if snowflake.Timestamp == 0 {
		t.Error("extracted timestamp is zero")
	}
}
