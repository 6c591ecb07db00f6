package buildid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerIDSequenceBits(t *testing.T) {
	tests := []struct {
		cfg         Config
		wantID      uint16
		wantSeqBits int
		wantErr     error
	}{
		{Config{WorkerCIDR: "0.0.0.0/16", PodIP: "10.2.3.4"}, 3*(1<<8) + 4, 8, nil},
		{Config{WorkerCIDR: "0.0.0.0/24", PodIP: "10.2.3.4"}, 4, 16, nil},
		{Config{WorkerCIDR: "0.0.0.0/23", PodIP: "10.2.3.4"}, 1*(1<<8) + 4, 15, nil},

		{Config{WorkerCIDR: "0.0.0.0/24", PodIP: "1.2.3.4"}, 0, 0, ErrBadPodIP},
		{Config{WorkerCIDR: "0.0.0.0/8", PodIP: "10.2.3.4"}, 0, 0, ErrMaskRange},
		{Config{WorkerCIDR: "0.0.0.0/25", PodIP: "10.2.3.4"}, 0, 0, ErrMaskRange},
		{Config{WorkerCIDR: "not-a-cidr", PodIP: "10.2.3.4"}, 0, 0, ErrBadWorkerCIDR},
		{Config{WorkerCIDR: "0.0.0.0/16", PodIP: "not-an-ip"}, 0, 0, ErrBadPodIP},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("cidr=%s,ip=%s", tt.cfg.WorkerCIDR, tt.cfg.PodIP), func(t *testing.T) {
			id, seqBits, err := workerIDSequenceBits(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, id)
			require.Equal(t, tt.wantSeqBits, seqBits)
		})
	}
}
