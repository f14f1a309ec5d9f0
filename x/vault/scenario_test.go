package vault

import (
	"testing"

	"github.com/callora/custody/coin"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMeteredUsage(t *testing.T) {
	Convey("Given a vault funded with 1000", t, func() {
		owner := custodytest.NewCondition()
		f := newFixture(t)
		f.mustDeliver(&InitMsg{Instance: instance, Owner: owner.Address(), InitialBalance: coin.NewAmount(1000)}, owner)

		Convey("a deduction of 400 leaves 600", func() {
			res := f.mustDeliver(&DeductMsg{Instance: instance, Caller: owner.Address(), Amount: coin.NewAmount(400)}, owner)
			So(string(res.Data), ShouldEqual, "600")
			So(f.balance(), ShouldEqual, "600")

			Convey("and a further deduction of 700 is rejected", func() {
				_, err := f.deliver(&DeductMsg{Instance: instance, Caller: owner.Address(), Amount: coin.NewAmount(700)}, owner)
				So(errors.ErrInsufficientBalance.Is(err), ShouldBeTrue)
				So(f.balance(), ShouldEqual, "600")
			})
		})

		Convey("deposits and deductions are accounted for", func() {
			deposits := []int64{10, 250, 40}
			deductions := []int64{300, 5000, 1}
			want := int64(1000)
			for i := range deposits {
				f.mustDeliver(&DepositMsg{Instance: instance, Caller: owner.Address(), Amount: coin.NewAmount(deposits[i])}, owner)
				want += deposits[i]
				_, err := f.deliver(&DeductMsg{Instance: instance, Caller: owner.Address(), Amount: coin.NewAmount(deductions[i])}, owner)
				if deductions[i] <= want {
					So(err, ShouldBeNil)
					want -= deductions[i]
				} else {
					So(errors.ErrInsufficientBalance.Is(err), ShouldBeTrue)
				}
			}
			So(f.balance(), ShouldEqual, coin.NewAmount(want).String())
		})
	})
}
