package sap_calc

// peakSubject is the part of a heating system the on-peak dispatch looks at.
type peakSubject interface {
	Kind() SystemKind
	Fuel() Fuel
}

func tariffKindOf(f Fuel) TariffKind {
	if t, ok := f.(*ElectricityTariff); ok {
		return t.Kind()
	}
	return TariffStandard
}

// tariffDefault is the on-peak fraction of direct-acting electric heating.
func tariffDefault(k TariffKind) float64 {
	switch k {
	case TariffSevenHour:
		return 1.0
	case TariffTenHour:
		return 0.5
	default:
		return 1.0
	}
}

/*
onPeakFraction is the fraction of a system's electricity bought at the on-peak rate.

	Non-electric fuels are always 1. For electric fuels the fraction depends on the system
	kind and the tariff; every kind is handled explicitly.
*/
func onPeakFraction(s peakSubject, d *Dwelling) (float64, error) {
	fuel := s.Fuel()
	if fuel == nil {
		return 0, assertionErrorf("%s has no fuel", s.Kind())
	}
	if !fuel.IsElectric() {
		return 1, nil
	}
	tariff := tariffKindOf(fuel)

	switch s.Kind() {
	case KindOffPeakDirect:
		return 0, nil
	case KindIntegratedStorage:
		if tariff == TariffSevenHour {
			return 0.2, nil
		}
		return tariffDefault(tariff), nil
	case KindStorageHeater:
		return 0, nil
	case KindElectricCPSU:
		cpsu, ok := s.(*CPSUSystem)
		if !ok {
			return 0, assertionErrorf("electric CPSU without store data")
		}
		return cpsu.computeOnPeakFraction(d)
	case KindElectricBoiler:
		switch tariff {
		case TariffSevenHour:
			return 0.9, nil
		case TariffTenHour:
			return 0.5, nil
		default:
			return 1.0, nil
		}
	case KindPerformanceHeatPump, KindMicroCHP:
		return 0.8, nil
	case KindHeatPump:
		return 0.6, nil
	case KindRegularBoiler, KindCombiBoiler, KindGasCPSU, KindDirectElectric,
		KindWarmAir, KindRoomHeater, KindWaterOnly, KindElectricImmersion:
		return tariffDefault(tariff), nil
	case KindCommunity:
		return 0, assertionErrorf("community heating billed on an electricity tariff")
	}
	return 0, assertionErrorf("no on-peak rule for system kind %d", int(s.Kind()))
}

// otherUsesOnPeakFraction is the on-peak fraction of lighting, appliances, pumps and fans.
func otherUsesOnPeakFraction(k TariffKind) float64 {
	switch k {
	case TariffSevenHour:
		return 0.90
	case TariffTenHour:
		return 0.80
	default:
		return 1.0
	}
}
