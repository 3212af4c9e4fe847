package jobfile

// Example returns a complete job document, used to scaffold new jobs
func Example() string {
	return `job "Riverside Warehouse" {
  system = "tpo"

  measurements {
    roof_area        = 10000
    perimeter_lf     = 520
    wall_lf          = 420
    wall_height      = 2.5
    base_flashing_lf = 180
  }

  assembly {
    deck          = "steel"
    vapor_barrier = "vb-sa"
    cover_board   = "cb-hd-05"
    membrane_mil  = 60
    attachment    = "mechanically-attached"

    layer {
      thickness = 2.5
    }

    layer {
      thickness = 2.0
    }
  }

  penetration "pen-pipe-small" {
    count = 2
  }

  penetration "pen-drain" {
    count = 1
  }

  sheet_metal "coping" {
    metal     = "galvanized"
    gauge     = 24
    length_lf = 120
  }

  rates {
    tax    = 7.25
    profit = 15
  }
}
`
}
