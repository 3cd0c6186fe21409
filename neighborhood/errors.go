package neighborhood

import "errors"

// ErrInvalidConnectivity is returned when a Connectivity value outside
// {Six, Eighteen, TwentyFour, TwentySix} is supplied.
var ErrInvalidConnectivity = errors.New("neighborhood: connectivity must be one of Six, Eighteen, TwentyFour, TwentySix")
